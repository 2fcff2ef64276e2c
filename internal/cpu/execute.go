package cpu

import (
	"fmt"

	"github.com/mnafees/c8core/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

type pcActionKind int

const (
	pcAdvance pcActionKind = iota
	pcSkip
	pcJump
	pcHold
)

// pcAction tells Tick how to move the program counter after an instruction.
type pcAction struct {
	kind pcActionKind
	addr uint16
}

var (
	advance = pcAction{kind: pcAdvance}
	skip    = pcAction{kind: pcSkip}
	hold    = pcAction{kind: pcHold}
)

func jump(addr uint16) pcAction {
	return pcAction{kind: pcJump, addr: addr}
}

func skipIf(cond bool) pcAction {
	if cond {
		return skip
	}
	return advance
}

// execute applies ins to the CPU state. On error no state has been changed.
func (c *CPU) execute(ins Instruction) (pcAction, error) {
	s := &c.state
	x, y := ins.X, ins.Y

	switch ins.Kind {
	case KindCls:
		c.display.Clear()

	case KindRet:
		if s.SP <= 0 {
			return advance, ErrStackUnderflow
		}
		s.SP--
		return jump(s.Stack[s.SP]), nil

	case KindJump:
		return jump(ins.NNN), nil

	case KindCall:
		if s.SP >= StackDepth {
			return advance, ErrStackOverflow
		}
		s.Stack[s.SP] = s.PC + instructionSize
		s.SP++
		return jump(ins.NNN), nil

	case KindSkipEqImm:
		return skipIf(s.V[x] == ins.NN), nil

	case KindSkipNeImm:
		return skipIf(s.V[x] != ins.NN), nil

	case KindSkipEqReg:
		return skipIf(s.V[x] == s.V[y]), nil

	case KindSkipNeReg:
		return skipIf(s.V[x] != s.V[y]), nil

	case KindLoadImm:
		s.V[x] = ins.NN

	case KindAddImm:
		s.V[x] += ins.NN

	case KindMove:
		s.V[x] = s.V[y]

	case KindOr:
		s.V[x] |= s.V[y]

	case KindAnd:
		s.V[x] &= s.V[y]

	case KindXor:
		s.V[x] ^= s.V[y]

	case KindAdd:
		sum := uint16(s.V[x]) + uint16(s.V[y])
		s.setWithFlag(x, uint8(sum), sum > 0xFF)

	case KindSub:
		vx, vy := s.V[x], s.V[y]
		s.setWithFlag(x, vx-vy, vx >= vy)

	case KindSubn:
		vx, vy := s.V[x], s.V[y]
		s.setWithFlag(x, vy-vx, vy >= vx)

	case KindShr:
		src := c.shiftSource(x, y)
		s.setWithFlag(x, src>>1, src&0x01 != 0)

	case KindShl:
		src := c.shiftSource(x, y)
		s.setWithFlag(x, src<<1, src&0x80 != 0)

	case KindLoadIndex:
		s.I = ins.NNN

	case KindJumpV0:
		return jump(ins.NNN + uint16(s.V[0])), nil

	case KindRandom:
		s.V[x] = c.random() & ins.NN

	case KindDraw:
		if err := c.draw(s.V[x], s.V[y], ins.N); err != nil {
			return advance, err
		}

	case KindSkipKey:
		return skipIf(c.KeyPressed(s.V[x])), nil

	case KindSkipNoKey:
		return skipIf(!c.KeyPressed(s.V[x])), nil

	case KindGetDelay:
		s.V[x] = s.DT

	case KindWaitKey:
		c.wait = &keyWait{register: x}
		return hold, nil

	case KindSetDelay:
		s.DT = s.V[x]

	case KindSetSound:
		s.ST = s.V[x]

	case KindAddIndex:
		s.I += uint16(s.V[x])

	case KindFont:
		s.I = FontAddress(s.V[x])

	case KindBCD:
		if err := checkRange(s.I, 3); err != nil {
			return advance, err
		}
		v := s.V[x]
		for i, digit := range [3]uint8{v / 100, v / 10 % 10, v % 10} {
			if err := c.mem.Write(s.I+uint16(i), digit); err != nil {
				return advance, err
			}
		}

	case KindStore:
		if err := checkRange(s.I, int(x)+1); err != nil {
			return advance, err
		}
		for r := uint16(0); r <= uint16(x); r++ {
			if err := c.mem.Write(s.I+r, s.V[r]); err != nil {
				return advance, err
			}
		}
		c.advanceIndex(x)

	case KindLoad:
		if err := checkRange(s.I, int(x)+1); err != nil {
			return advance, err
		}
		for r := uint16(0); r <= uint16(x); r++ {
			v, err := c.mem.Read(s.I + r)
			if err != nil {
				return advance, err
			}
			s.V[r] = v
		}
		c.advanceIndex(x)

	case KindUnknown:
		c.logger.Warn("Skipping unknown instruction",
			log.Hex("pc", s.PC),
			log.Hex("opcode", ins.Word))
	}

	return advance, nil
}

// setWithFlag writes the ALU result before the flag so that VF as the
// destination register ends up holding the flag.
func (s *State) setWithFlag(x, result uint8, flag bool) {
	s.V[x] = result
	if flag {
		s.V[0xF] = 1
	} else {
		s.V[0xF] = 0
	}
}

func (c *CPU) shiftSource(x, y uint8) uint8 {
	if c.quirks.ShiftInPlace {
		return c.state.V[x]
	}
	return c.state.V[y]
}

func (c *CPU) advanceIndex(x uint8) {
	if c.quirks.IncrementIndex {
		c.state.I += uint16(x) + 1
	}
}

// checkRange verifies that count bytes starting at addr are addressable.
// Multi-byte instructions call it before touching memory so that a failing
// instruction leaves no partial writes behind.
func checkRange(addr uint16, count int) error {
	if int(addr)+count-1 > memory.MaxAddress {
		return fmt.Errorf("accessing %d bytes at 0x%04X: %w", count, addr, memory.ErrOutOfBounds)
	}
	return nil
}

// draw XORs an 8 x rows sprite read from I onto the display at (vx, vy),
// wrapping at the screen edges. VF is set when a lit pixel is erased.
func (c *CPU) draw(vx, vy, rows uint8) error {
	s := &c.state
	if err := checkRange(s.I, int(rows)); err != nil {
		return err
	}

	collision := false
	for row := uint8(0); row < rows; row++ {
		spriteByte, err := c.mem.Read(s.I + uint16(row))
		if err != nil {
			return err
		}
		for bit := uint8(0); bit < 8; bit++ {
			px := (spriteByte >> (7 - bit)) & 0x1
			if c.display.WritePixel(int(vx)+int(bit), int(vy)+int(row), px) {
				collision = true
			}
		}
	}

	if collision {
		s.V[0xF] = 1
	} else {
		s.V[0xF] = 0
	}
	return nil
}
