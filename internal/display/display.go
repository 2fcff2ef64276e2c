// Package display holds the CHIP-8 monochrome framebuffer.
package display

// Screen dimensions in pixels
const (
	Width  = 64
	Height = 32
)

// Buffer is a row-major copy of the screen, one byte per pixel holding 0 or 1.
type Buffer [Width * Height]uint8

// At returns the pixel at column x, row y.
func (b *Buffer) At(x, y int) uint8 {
	return b[y*Width+x]
}

// Display owns the pixel buffer. Coordinates passed to it wrap around the
// screen edges.
type Display struct {
	pixels Buffer
	dirty  bool
}

// New returns a blank display.
func New() *Display {
	return &Display{}
}

// WritePixel XORs bit into the pixel at (x, y) and reports whether a lit
// pixel was turned off.
func (d *Display) WritePixel(x, y int, bit uint8) bool {
	bit &= 1
	if bit == 0 {
		return false
	}
	px := &d.pixels[index(x, y)]
	erased := *px == 1
	*px ^= bit
	d.dirty = true
	return erased
}

// Pixel returns the pixel at (x, y).
func (d *Display) Pixel(x, y int) uint8 {
	return d.pixels[index(x, y)]
}

// Clear resets all pixels to a value of 0
func (d *Display) Clear() {
	d.pixels = Buffer{}
	d.dirty = true
}

// Snapshot returns a copy of the buffer for the renderer.
func (d *Display) Snapshot() Buffer {
	return d.pixels
}

// Dirty returns whether the buffer changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

// ClearDirty is called by the renderer after presenting a frame.
func (d *Display) ClearDirty() {
	d.dirty = false
}

func index(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
