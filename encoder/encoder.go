// Package encoder turns a parsed, symbol-resolved Instruction into its
// 32-bit encoded word. Encode is a pure function: given the same
// Instruction it always produces the same word, and it never mutates its
// argument.
package encoder

import (
	"fmt"

	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

// Encode packs inst into its 32-bit instruction word per the shape/subtype
// its ISA table row declares.
func Encode(inst *parser.Instruction) (uint32, error) {
	info := inst.Info
	var rs, rt, rd, flags uint32
	var w int32
	var err error

	switch info.Sub {
	case isa.SubNop, isa.SubHalt:
		// no operands to read

	case isa.SubLoad, isa.SubStore, isa.SubFload, isa.SubFstore:
		rt = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Base.Index())
		if w, err = immToI32(inst.Args[1].Imm); err != nil {
			return 0, err
		}

	case isa.SubReg2I:
		rt = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Reg.Index())
		if w, err = immToI32(inst.Args[2].Imm); err != nil {
			return 0, err
		}

	case isa.SubReg1I:
		rt = uint32(inst.Args[0].Reg.Index())
		if w, err = immToI32(inst.Args[1].Imm); err != nil {
			return 0, err
		}

	case isa.SubBranch:
		rt = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Reg.Index())
		if w, err = relativeWord(inst, inst.Args[2].Imm); err != nil {
			return 0, err
		}

	case isa.SubJregn:
		rt = uint32(inst.Args[0].Reg.Index())
		if w, err = relativeWord(inst, inst.Args[1].Imm); err != nil {
			return 0, err
		}

	case isa.SubJump, isa.SubBC:
		if w, err = relativeWord(inst, inst.Args[0].Imm); err != nil {
			return 0, err
		}

	case isa.SubJreg:
		rt = uint32(inst.Args[0].Reg.Index())

	case isa.SubReg2S:
		rd = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Reg.Index())
		var shamt int32
		if shamt, err = immToI32(inst.Args[2].Imm); err != nil {
			return 0, err
		}
		flags = uint32(shamt) & 0x1F

	case isa.SubReg3:
		rd = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Reg.Index())
		rt = uint32(inst.Args[2].Reg.Index())

	case isa.SubReg3F:
		rd = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Reg.Index())
		rt = uint32(inst.Args[2].Reg.Index())

	case isa.SubReg2F:
		rd = uint32(inst.Args[0].Reg.Index())
		rs = uint32(inst.Args[1].Reg.Index())

	case isa.SubReg2C:
		rs = uint32(inst.Args[0].Reg.Index())
		rt = uint32(inst.Args[1].Reg.Index())

	case isa.SubRegID, isa.SubRegDI:
		rt = uint32(inst.Args[0].Reg.Index())
		rd = uint32(inst.Args[1].Reg.Index())

	default:
		return 0, fmt.Errorf("%w: unhandled subtype for %s", ErrEncode, info.Name)
	}

	switch info.Shape {
	case isa.ShapeI:
		return info.Base | rs<<21 | rt<<16 | (uint32(w) & 0xFFFF), nil
	case isa.ShapeR:
		return info.Base | rs<<21 | rt<<16 | rd<<11 | flags<<6, nil
	case isa.ShapeJ:
		return info.Base | (uint32(w) & 0x3FFFFFF), nil
	case isa.ShapeF:
		return info.Base | rs<<11 | rt<<16 | rd<<6, nil
	case isa.ShapeM:
		return info.Base | rt<<16 | rd<<11, nil
	case isa.ShapeB:
		return info.Base | (uint32(w) & 0xFFFF), nil
	default:
		return 0, fmt.Errorf("%w: unhandled shape for %s", ErrEncode, info.Name)
	}
}

func immToI32(imm parser.Immediate) (int32, error) {
	if imm.Kind != parser.ImmInt {
		return 0, fmt.Errorf("%w: immediate not resolved to an integer", ErrEncode)
	}
	return imm.Int, nil
}

// relativeWord computes the PC-relative, word-scaled displacement the
// encoder always produces for branch and jump targets: (target - (pc+4))/4.
// The decoder is asymmetric about re-applying this scale (see vm package);
// the encoder scales uniformly regardless of which mnemonic is being
// encoded.
func relativeWord(inst *parser.Instruction, imm parser.Immediate) (int32, error) {
	target, err := immToI32(imm)
	if err != nil {
		return 0, err
	}
	rel := (int64(target) - (inst.PC + 4)) / 4
	return int32(rel), nil
}
