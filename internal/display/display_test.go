package display

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWritePixel(t *testing.T) {
	d := New()

	erased := d.WritePixel(5, 7, 1)
	assert.False(t, erased)
	assert.Equal(t, uint8(1), d.Pixel(5, 7))
	assert.True(t, d.Dirty())

	buf := d.Snapshot()
	assert.Equal(t, uint8(1), buf[7*Width+5])
	assert.Equal(t, uint8(1), buf.At(5, 7))

	erased = d.WritePixel(5, 7, 1)
	assert.True(t, erased)
	assert.Equal(t, uint8(0), d.Pixel(5, 7))
}

func TestWritePixelZeroBit(t *testing.T) {
	d := New()
	d.WritePixel(1, 1, 1)
	d.ClearDirty()

	erased := d.WritePixel(1, 1, 0)
	assert.False(t, erased)
	assert.Equal(t, uint8(1), d.Pixel(1, 1))
	assert.False(t, d.Dirty())
}

func TestWritePixelWraps(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"right edge", Width, 0, 0, 0},
		{"bottom edge", 3, Height, 3, 0},
		{"both edges", Width + 2, Height + 1, 2, 1},
		{"far beyond", 3*Width + 10, 5*Height + 4, 10, 4},
		{"negative", -1, -1, Width - 1, Height - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			d.WritePixel(tt.x, tt.y, 1)

			assert.Equal(t, uint8(1), d.Pixel(tt.wantX, tt.wantY))
			buf := d.Snapshot()
			assert.Equal(t, uint8(1), buf.At(tt.wantX, tt.wantY))
		})
	}
}

func TestClear(t *testing.T) {
	d := New()
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			d.WritePixel(x, y, 1)
		}
	}
	d.ClearDirty()

	d.Clear()

	assert.True(t, d.Dirty())
	buf := d.Snapshot()
	for _, px := range buf {
		assert.Equal(t, uint8(0), px)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	d := New()
	buf := d.Snapshot()
	buf[0] = 1

	assert.Equal(t, uint8(0), d.Pixel(0, 0))
}
