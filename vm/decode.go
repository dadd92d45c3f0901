package vm

import (
	"fmt"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

// Decoded is a fetched instruction word resolved back to its ISA row and
// operand registers/immediate. It mirrors the positional layout
// encoder.Encode reads from a parsed Instruction: Reg0/Reg1/Reg2 and Imm
// line up with the same argument slots the assembler parsed, just taken
// from bit fields instead of source text.
type Decoded struct {
	Info *isa.InstructionInfo
	Reg0 isa.Register
	Reg1 isa.Register
	Reg2 isa.Register
	Imm  int32
}

// signExtend16 widens the low 16 bits of word to a signed 32-bit value.
func signExtend16(word uint32) int32 { return int32(int16(word & 0xFFFF)) }

// signExtend26 widens the low 26 bits of word to a signed 32-bit value.
func signExtend26(word uint32) int32 {
	v := word & 0x3FFFFFF
	if v&(1<<25) != 0 {
		v |= 0xFC000000
	}
	return int32(v)
}

func field(word uint32, shift uint) isa.Register {
	return isa.Register((word >> shift) & 0x1F)
}

// Decode resolves a fetched 32-bit word to the instruction it encodes. The
// returned Decoded's register fields are tagged with the correct bank
// (integer or floating point) per the matched instruction's argument
// schema; Imm carries the raw field value, unscaled and unsign-adjusted
// beyond ordinary two's-complement sign extension — any further branch
// scaling is applied by the executor, not here, matching the asymmetry
// preserved from the reference decoder.
func Decode(word uint32) (*Decoded, error) {
	info, ok := isa.Decode(word)
	if !ok {
		return nil, fmt.Errorf("%w: word 0x%08X", ErrDecode, word)
	}

	rs := field(word, 21)
	rt := field(word, 16)
	rd := field(word, 11)
	shamt := int32((word >> 6) & 0x1F)

	d := &Decoded{Info: info}

	asBank := func(r isa.Register, float bool) isa.Register {
		if float {
			return isa.FloatReg(r.Index())
		}
		return isa.IntReg(r.Index())
	}

	switch info.Sub {
	case isa.SubNop, isa.SubHalt:
		// no operands

	case isa.SubLoad, isa.SubFload:
		d.Reg0 = asBank(rt, info.ArgTypes[0] == isa.ArgFreg)
		d.Reg1 = isa.IntReg(rs.Index())
		d.Imm = signExtend16(word)

	case isa.SubStore, isa.SubFstore:
		d.Reg0 = asBank(rt, info.ArgTypes[0] == isa.ArgFreg)
		d.Reg1 = isa.IntReg(rs.Index())
		d.Imm = signExtend16(word)

	case isa.SubReg2I:
		d.Reg0 = isa.IntReg(rt.Index())
		d.Reg1 = isa.IntReg(rs.Index())
		d.Imm = signExtend16(word)

	case isa.SubReg1I:
		d.Reg0 = isa.IntReg(rt.Index())
		d.Imm = signExtend16(word)

	case isa.SubBranch:
		d.Reg0 = isa.IntReg(rt.Index())
		d.Reg1 = isa.IntReg(rs.Index())
		d.Imm = signExtend16(word)

	case isa.SubJregn:
		d.Reg0 = isa.IntReg(rt.Index())
		d.Imm = signExtend16(word)

	case isa.SubJump:
		d.Imm = signExtend26(word)

	case isa.SubBC:
		d.Imm = signExtend16(word)

	case isa.SubJreg:
		d.Reg0 = isa.IntReg(rt.Index())

	case isa.SubReg2S:
		d.Reg0 = isa.IntReg(rd.Index())
		d.Reg1 = isa.IntReg(rs.Index())
		d.Imm = shamt

	case isa.SubReg3:
		d.Reg0 = isa.IntReg(rd.Index())
		d.Reg1 = isa.IntReg(rs.Index())
		d.Reg2 = isa.IntReg(rt.Index())

	// The F shape packs its source rs at bit 11 and its destination rd at
	// bit 6 (rt stays at bit 16); bits 25:21 hold the fixed format field.
	case isa.SubReg3F:
		d.Reg0 = isa.FloatReg(field(word, 6).Index())
		d.Reg1 = isa.FloatReg(rd.Index())
		d.Reg2 = isa.FloatReg(rt.Index())

	case isa.SubReg2F:
		d.Reg0 = isa.FloatReg(field(word, 6).Index())
		d.Reg1 = isa.FloatReg(rd.Index())

	case isa.SubReg2C:
		d.Reg0 = isa.FloatReg(rd.Index())
		d.Reg1 = isa.FloatReg(rt.Index())

	case isa.SubRegID:
		d.Reg0 = isa.IntReg(rt.Index())
		d.Reg1 = isa.FloatReg(rd.Index())

	case isa.SubRegDI:
		d.Reg0 = isa.IntReg(rt.Index())
		d.Reg1 = isa.FloatReg(rd.Index())

	default:
		return nil, fmt.Errorf("%w: unhandled subtype for %s", ErrDecode, info.Name)
	}

	return d, nil
}
