// Package sdl is the SDL2 frontend: it presents the framebuffer, feeds key
// events to the VM and paces it at 60 frames per second.
package sdl

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/c8core/internal"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	soundIndicator = " ♪"
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	title   string
	beeping bool

	pixelSize int32
	vm        *internal.C8VM
	logger    *log.Logger
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, logger *log.Logger, pixelSize int) *IO {
	return &IO{
		vm:        vm,
		logger:    logger,
		pixelSize: int32(pixelSize),
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.title = title
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		if err := io.window.Destroy(); err != nil {
			io.logger.Error("Destroying window failed", log.Err(err))
		}
	}
	sdl.Quit()
}

// Loop is the main application loop. It returns nil when the window is
// closed or ctx is cancelled, and the VM error when execution fails.
func (io *IO) Loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / internal.TimerFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			io.logger.Info("Interrupted")
			return nil
		case <-ticker.C:
		}

		if !io.pollEvents() {
			return nil
		}

		if err := io.vm.RunFrame(); err != nil {
			return fmt.Errorf("running frame: %w", err)
		}

		if io.vm.IsDrawFlagSet() {
			if err := io.draw(); err != nil {
				return err
			}
		}
		io.updateSoundIndicator()
	}
}

// pollEvents drains the SDL event queue and returns false on quit.
func (io *IO) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			code := keymap(t.Keysym.Scancode)
			if code == -1 {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				io.vm.SetKeymask(uint8(code))
			case sdl.KEYUP:
				io.vm.UnsetKeymask(uint8(code))
			}
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

// Draws the current framebuffer on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}
	pixels := io.vm.Pixels()
	for h := int32(0); h < internal.ScreenHeight; h++ {
		for w := int32(0); w < internal.ScreenWidth; w++ {
			if pixels.At(int(w), int(h)) == 0 {
				continue
			}
			rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
			if err := io.surface.FillRect(rect, spriteColor); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window surface: %w", err)
	}
	io.vm.UnsetDrawFlag()
	return nil
}

// The buzzer is shown in the window title, there is no audio output.
func (io *IO) updateSoundIndicator() {
	active := io.vm.SoundActive()
	if active == io.beeping {
		return
	}
	io.beeping = active
	if active {
		io.window.SetTitle(io.title + soundIndicator)
	} else {
		io.window.SetTitle(io.title)
	}
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) int8 {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1
	case sdl.SCANCODE_2:
		return 0x2
	case sdl.SCANCODE_3:
		return 0x3
	case sdl.SCANCODE_4:
		return 0xC
	case sdl.SCANCODE_Q:
		return 0x4
	case sdl.SCANCODE_W:
		return 0x5
	case sdl.SCANCODE_E:
		return 0x6
	case sdl.SCANCODE_R:
		return 0xD
	case sdl.SCANCODE_A:
		return 0x7
	case sdl.SCANCODE_S:
		return 0x8
	case sdl.SCANCODE_D:
		return 0x9
	case sdl.SCANCODE_F:
		return 0xE
	case sdl.SCANCODE_Z:
		return 0xA
	case sdl.SCANCODE_X:
		return 0x0
	case sdl.SCANCODE_C:
		return 0xB
	case sdl.SCANCODE_V:
		return 0xF
	default:
		return -1
	}
}
