// Package cpu implements the CHIP-8 fetch-decode-execute cycle.
//
// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
package cpu

import (
	"errors"
	"fmt"

	"github.com/mnafees/c8core/internal/display"
	"github.com/mnafees/c8core/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// CPU constants
const (
	RegisterCount = 16
	StackDepth    = 16
	KeyCount      = 16

	instructionSize = 2
)

var (
	// ErrStackOverflow is returned when a call exceeds StackDepth nested calls.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrInvalidState is returned by SetState for a stack pointer outside
	// 0..StackDepth.
	ErrInvalidState = errors.New("invalid CPU state")
)

// Status reports what the CPU needs from the host after a tick.
type Status int

const (
	// Running means the next tick executes the next instruction.
	Running Status = iota
	// AwaitingKey means an FX0A instruction is waiting for a key press.
	// Ticks do nothing until a key goes down.
	AwaitingKey
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingKey:
		return "awaiting key"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is the complete register file of the CPU.
type State struct {
	V     [RegisterCount]uint8 // 16 general purpose 8-bit registers, VF doubles as flag
	I     uint16               // index register, used to store memory addresses
	PC    uint16               // program counter
	SP    int                  // number of return addresses on the stack
	Stack [StackDepth]uint16   // return addresses
	DT    uint8                // delay timer
	ST    uint8                // sound timer
}

// keyWait holds an FX0A in progress.
type keyWait struct {
	register uint8
	pressed  bool
	key      uint8
}

// CPU is an emulated CHIP-8 processor. It exclusively owns the memory and
// display it was created with. Calls must be serialised by the host.
type CPU struct {
	state   State
	keys    [KeyCount]bool
	wait    *keyWait
	mem     *memory.Memory
	display *display.Display
	quirks  Quirks
	random  func() uint8
	logger  *log.Logger
}

// New creates a CPU over mem and disp, installs the font and resets all
// registers. PC starts at cfg.Origin.
func New(mem *memory.Memory, disp *display.Display, cfg Config, logger *log.Logger) (*CPU, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if cfg.Random == nil {
		cfg.Random = randomByte
	}
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	if err := mem.Load(fontset[:], fontAddr); err != nil {
		return nil, fmt.Errorf("installing font: %w", err)
	}

	c := &CPU{
		mem:     mem,
		display: disp,
		quirks:  cfg.Quirks,
		random:  cfg.Random,
		logger:  logger,
	}
	c.state.PC = cfg.Origin
	return c, nil
}

// State returns a copy of the register file.
func (c *CPU) State() State {
	return c.state
}

// SetState replaces the register file. It is meant for debuggers and tests.
func (c *CPU) SetState(s State) error {
	if s.SP < 0 || s.SP > StackDepth {
		return fmt.Errorf("stack pointer %d: %w", s.SP, ErrInvalidState)
	}
	c.state = s
	return nil
}

// Memory returns the memory the CPU executes from, for the program loader.
func (c *CPU) Memory() *memory.Memory {
	return c.mem
}

// Display returns the framebuffer for the renderer.
func (c *CPU) Display() *display.Display {
	return c.display
}

// Status returns whether the CPU is waiting for a key.
func (c *CPU) Status() Status {
	if c.wait != nil {
		return AwaitingKey
	}
	return Running
}

// Tick executes exactly one instruction. Fatal conditions (memory bounds,
// stack overflow/underflow) are returned as errors and leave PC on the
// failing instruction. Unknown instruction words are logged and skipped.
func (c *CPU) Tick() (Status, error) {
	if c.wait != nil {
		return c.resumeKeyWait(), nil
	}

	word, err := c.fetch()
	if err != nil {
		return Running, err
	}

	ins := Decode(word)
	c.logger.Debug("Executing",
		log.Hex("pc", c.state.PC),
		log.Hex("opcode", word),
		log.Stringer("instruction", ins))

	action, err := c.execute(ins)
	if err != nil {
		return Running, fmt.Errorf("executing %04X at 0x%04X: %w", word, c.state.PC, err)
	}

	switch action.kind {
	case pcAdvance:
		c.state.PC += instructionSize
	case pcSkip:
		c.state.PC += 2 * instructionSize
	case pcJump:
		c.state.PC = action.addr
	case pcHold:
		return AwaitingKey, nil
	}
	return Running, nil
}

func (c *CPU) fetch() (uint16, error) {
	hi, err := c.mem.Read(c.state.PC)
	if err != nil {
		return 0, fmt.Errorf("fetching instruction: %w", err)
	}
	lo, err := c.mem.Read(c.state.PC + 1)
	if err != nil {
		return 0, fmt.Errorf("fetching instruction: %w", err)
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// resumeKeyWait completes a pending FX0A once a key went down.
func (c *CPU) resumeKeyWait() Status {
	if !c.wait.pressed {
		return AwaitingKey
	}
	c.state.V[c.wait.register] = c.wait.key
	c.wait = nil
	c.state.PC += instructionSize
	return Running
}

// PressKey marks key as held down.
func (c *CPU) PressKey(key uint8) {
	c.setKey(key, true)
}

// ReleaseKey marks key as released.
func (c *CPU) ReleaseKey(key uint8) {
	c.setKey(key, false)
}

// SetKeys replaces the whole key state, as polled by the input layer.
func (c *CPU) SetKeys(keys [KeyCount]bool) {
	for k, down := range keys {
		c.setKey(uint8(k), down)
	}
}

// KeyPressed returns whether key is held down.
func (c *CPU) KeyPressed(key uint8) bool {
	return c.keys[key&0xF]
}

func (c *CPU) setKey(key uint8, down bool) {
	key &= 0xF
	if down && !c.keys[key] && c.wait != nil && !c.wait.pressed {
		c.wait.pressed = true
		c.wait.key = key
	}
	c.keys[key] = down
}

// DecrementTimers is called by the host at 60 Hz.
func (c *CPU) DecrementTimers() {
	if c.state.DT > 0 {
		c.state.DT--
	}
	if c.state.ST > 0 {
		c.state.ST--
	}
}

// DelayTimer returns the value of DT
func (c *CPU) DelayTimer() uint8 {
	return c.state.DT
}

// SoundTimer returns the value of ST
func (c *CPU) SoundTimer() uint8 {
	return c.state.ST
}
