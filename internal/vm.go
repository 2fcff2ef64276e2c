package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/c8core/internal/cpu"
	"github.com/mnafees/c8core/internal/display"
	"github.com/mnafees/c8core/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	TimerFrequency = 60 // timer decrements per second
	DefaultRate    = 700
	ScreenWidth    = display.Width
	ScreenHeight   = display.Height
)

// ErrEmptyProgram is returned when loading a program without any bytes.
var ErrEmptyProgram = errors.New("program is empty")

// C8VM is an emulated CHIP-8 VM. It wires memory, display and CPU together
// and drives them one 60 Hz frame at a time.
type C8VM struct {
	memory  *memory.Memory
	display *display.Display
	cpu     *cpu.CPU
	config  cpu.Config
	origin  uint16

	ticksPerFrame int
	logger        *log.Logger
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM executing rate
// instructions per second.
func NewC8VM(cfg cpu.Config, rate int, logger *log.Logger) (*C8VM, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid instruction rate %d", rate)
	}
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	mem := memory.New()
	disp := display.New()
	c, err := cpu.New(mem, disp, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating cpu: %w", err)
	}

	ticks := rate / TimerFrequency
	if ticks == 0 {
		ticks = 1
	}

	return &C8VM{
		memory:        mem,
		display:       disp,
		cpu:           c,
		config:        cfg,
		origin:        cfg.Origin,
		ticksPerFrame: ticks,
		logger:        logger,
	}, nil
}

// LoadProgram loads a given CHIP-8 program into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}
	if err := vm.LoadBytes(data); err != nil {
		return err
	}
	vm.logger.Info("Loaded program",
		log.String("file", filename),
		log.Int("size", len(data)),
		log.Hex("origin", vm.origin))
	return nil
}

// LoadBytes loads a program held in memory at the configured origin. The
// machine is reset first: memory and screen are cleared and the CPU starts
// over with fresh registers, so a failed load leaves an empty machine.
func (vm *C8VM) LoadBytes(program []byte) error {
	if len(program) == 0 {
		return ErrEmptyProgram
	}

	vm.memory.Reset()
	vm.display.Clear()
	c, err := cpu.New(vm.memory, vm.display, vm.config, vm.logger)
	if err != nil {
		return fmt.Errorf("creating cpu: %w", err)
	}
	vm.cpu = c

	if err := vm.memory.Load(program, vm.origin); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return nil
}

// Step executes a single instruction.
func (vm *C8VM) Step() (cpu.Status, error) {
	return vm.cpu.Tick()
}

// RunFrame executes one frame worth of instructions and then decrements the
// timers once. A frame ends early when the CPU starts waiting for a key.
func (vm *C8VM) RunFrame() error {
	for range vm.ticksPerFrame {
		status, err := vm.cpu.Tick()
		if err != nil {
			return err
		}
		if status == cpu.AwaitingKey {
			break
		}
	}
	vm.cpu.DecrementTimers()
	return nil
}

// TicksPerFrame returns how many instructions RunFrame executes.
func (vm *C8VM) TicksPerFrame() int {
	return vm.ticksPerFrame
}

// CPU returns the processor, for debuggers and tests.
func (vm *C8VM) CPU() *cpu.CPU {
	return vm.cpu
}

// Pixels returns a copy of the framebuffer
func (vm *C8VM) Pixels() display.Buffer {
	return vm.display.Snapshot()
}

// IsDrawFlagSet returns whether the screen changed since the last draw
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.display.Dirty()
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.display.ClearDirty()
}

// SetKeymask marks the respective key as pressed
func (vm *C8VM) SetKeymask(code uint8) {
	vm.cpu.PressKey(code)
}

// UnsetKeymask marks the respective key as released
func (vm *C8VM) UnsetKeymask(code uint8) {
	vm.cpu.ReleaseKey(code)
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.cpu.DelayTimer()
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.cpu.SoundTimer()
}

// SoundActive returns whether the buzzer should be sounding.
func (vm *C8VM) SoundActive() bool {
	return vm.cpu.SoundTimer() > 0
}

// AwaitingKey returns whether the program is blocked on FX0A.
func (vm *C8VM) AwaitingKey() bool {
	return vm.cpu.Status() == cpu.AwaitingKey
}
