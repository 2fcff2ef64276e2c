package cpu

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Kind identifies a decoded instruction.
type Kind uint8

// Instruction kinds. KindUnknown is produced for every word that does not
// encode a CHIP-8 instruction.
const (
	KindUnknown Kind = iota
	KindCls          // 00E0
	KindRet          // 00EE
	KindJump         // 1NNN
	KindCall         // 2NNN
	KindSkipEqImm    // 3XNN
	KindSkipNeImm    // 4XNN
	KindSkipEqReg    // 5XY0
	KindLoadImm      // 6XNN
	KindAddImm       // 7XNN
	KindMove         // 8XY0
	KindOr           // 8XY1
	KindAnd          // 8XY2
	KindXor          // 8XY3
	KindAdd          // 8XY4
	KindSub          // 8XY5
	KindShr          // 8XY6
	KindSubn         // 8XY7
	KindShl          // 8XYE
	KindSkipNeReg    // 9XY0
	KindLoadIndex    // ANNN
	KindJumpV0       // BNNN
	KindRandom       // CXNN
	KindDraw         // DXYN
	KindSkipKey      // EX9E
	KindSkipNoKey    // EXA1
	KindGetDelay     // FX07
	KindWaitKey      // FX0A
	KindSetDelay     // FX15
	KindSetSound     // FX18
	KindAddIndex     // FX1E
	KindFont         // FX29
	KindBCD          // FX33
	KindStore        // FX55
	KindLoad         // FX65
)

// mnemonics maps every known kind to its assembler opcode.
var mnemonics = map[Kind]chip8.OpcodeID{
	KindCls:       chip8.Cls,
	KindRet:       chip8.Ret,
	KindJump:      chip8.Jp,
	KindCall:      chip8.Call,
	KindSkipEqImm: chip8.Se,
	KindSkipNeImm: chip8.Sne,
	KindSkipEqReg: chip8.Se,
	KindLoadImm:   chip8.Ld,
	KindAddImm:    chip8.Add,
	KindMove:      chip8.Ld,
	KindOr:        chip8.Or,
	KindAnd:       chip8.And,
	KindXor:       chip8.Xor,
	KindAdd:       chip8.Add,
	KindSub:       chip8.Sub,
	KindShr:       chip8.Shr,
	KindSubn:      chip8.Subn,
	KindShl:       chip8.Shl,
	KindSkipNeReg: chip8.Sne,
	KindLoadIndex: chip8.Ld,
	KindJumpV0:    chip8.Jp,
	KindRandom:    chip8.Rnd,
	KindDraw:      chip8.Drw,
	KindSkipKey:   chip8.Skp,
	KindSkipNoKey: chip8.Sknp,
	KindGetDelay:  chip8.Ld,
	KindWaitKey:   chip8.Ld,
	KindSetDelay:  chip8.Ld,
	KindSetSound:  chip8.Ld,
	KindAddIndex:  chip8.Add,
	KindFont:      chip8.Ld,
	KindBCD:       chip8.Ld,
	KindStore:     chip8.Ld,
	KindLoad:      chip8.Ld,
}

// Instruction is a decoded instruction word. Only the operand fields that
// the kind uses are meaningful.
type Instruction struct {
	Kind Kind
	Word uint16
	X    uint8  // register index in the second nibble
	Y    uint8  // register index in the third nibble
	N    uint8  // lowest nibble
	NN   uint8  // lowest byte
	NNN  uint16 // lowest 12 bits
}

// Decode splits word into its nibbles and classifies it. It never fails;
// unrecognised words decode to KindUnknown.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Word: word,
		X:    uint8(word >> 8 & 0xF),
		Y:    uint8(word >> 4 & 0xF),
		N:    uint8(word & 0xF),
		NN:   uint8(word & 0xFF),
		NNN:  word & 0xFFF,
	}
	ins.Kind = classify(ins)
	return ins
}

func classify(ins Instruction) Kind {
	switch ins.Word >> 12 {
	case 0x0:
		switch ins.Word {
		case 0x00E0:
			return KindCls
		case 0x00EE:
			return KindRet
		}
	case 0x1:
		return KindJump
	case 0x2:
		return KindCall
	case 0x3:
		return KindSkipEqImm
	case 0x4:
		return KindSkipNeImm
	case 0x5:
		if ins.N == 0 {
			return KindSkipEqReg
		}
	case 0x6:
		return KindLoadImm
	case 0x7:
		return KindAddImm
	case 0x8:
		return classifyALU(ins.N)
	case 0x9:
		if ins.N == 0 {
			return KindSkipNeReg
		}
	case 0xA:
		return KindLoadIndex
	case 0xB:
		return KindJumpV0
	case 0xC:
		return KindRandom
	case 0xD:
		return KindDraw
	case 0xE:
		switch ins.NN {
		case 0x9E:
			return KindSkipKey
		case 0xA1:
			return KindSkipNoKey
		}
	case 0xF:
		return classifyMisc(ins.NN)
	}
	return KindUnknown
}

func classifyALU(op uint8) Kind {
	switch op {
	case 0x0:
		return KindMove
	case 0x1:
		return KindOr
	case 0x2:
		return KindAnd
	case 0x3:
		return KindXor
	case 0x4:
		return KindAdd
	case 0x5:
		return KindSub
	case 0x6:
		return KindShr
	case 0x7:
		return KindSubn
	case 0xE:
		return KindShl
	}
	return KindUnknown
}

func classifyMisc(op uint8) Kind {
	switch op {
	case 0x07:
		return KindGetDelay
	case 0x0A:
		return KindWaitKey
	case 0x15:
		return KindSetDelay
	case 0x18:
		return KindSetSound
	case 0x1E:
		return KindAddIndex
	case 0x29:
		return KindFont
	case 0x33:
		return KindBCD
	case 0x55:
		return KindStore
	case 0x65:
		return KindLoad
	}
	return KindUnknown
}

// Name returns the assembler mnemonic, or an empty string for unknown words.
func (i Instruction) Name() string {
	id, ok := mnemonics[i.Kind]
	if !ok {
		return ""
	}
	return chip8.OpcodeIDToName[id]
}

// String returns the instruction in assembler syntax.
func (i Instruction) String() string {
	name := i.Name()
	switch i.Kind {
	case KindUnknown:
		return fmt.Sprintf("dw $%04X", i.Word)
	case KindCls, KindRet:
		return name
	case KindJump, KindCall:
		return fmt.Sprintf("%s $%03X", name, i.NNN)
	case KindJumpV0:
		return fmt.Sprintf("%s V0, $%03X", name, i.NNN)
	case KindSkipEqImm, KindSkipNeImm, KindLoadImm, KindAddImm, KindRandom:
		return fmt.Sprintf("%s V%X, $%02X", name, i.X, i.NN)
	case KindSkipEqReg, KindSkipNeReg, KindMove, KindOr, KindAnd, KindXor,
		KindAdd, KindSub, KindSubn, KindShr, KindShl:
		return fmt.Sprintf("%s V%X, V%X", name, i.X, i.Y)
	case KindLoadIndex:
		return fmt.Sprintf("%s I, $%03X", name, i.NNN)
	case KindDraw:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, i.X, i.Y, i.N)
	case KindSkipKey, KindSkipNoKey:
		return fmt.Sprintf("%s V%X", name, i.X)
	case KindGetDelay:
		return fmt.Sprintf("%s V%X, DT", name, i.X)
	case KindWaitKey:
		return fmt.Sprintf("%s V%X, K", name, i.X)
	case KindSetDelay:
		return fmt.Sprintf("%s DT, V%X", name, i.X)
	case KindSetSound:
		return fmt.Sprintf("%s ST, V%X", name, i.X)
	case KindAddIndex:
		return fmt.Sprintf("%s I, V%X", name, i.X)
	case KindFont:
		return fmt.Sprintf("%s F, V%X", name, i.X)
	case KindBCD:
		return fmt.Sprintf("%s B, V%X", name, i.X)
	case KindStore:
		return fmt.Sprintf("%s [I], V%X", name, i.X)
	case KindLoad:
		return fmt.Sprintf("%s V%X, [I]", name, i.X)
	}
	return name
}
