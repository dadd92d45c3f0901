package parser

import "github.com/lookbusy1344/mips-toolchain/isa"

// ImmediateKind tags the three states an Immediate can be in before and
// after symbol resolution.
type ImmediateKind int

const (
	ImmInt ImmediateKind = iota
	ImmFloat
	ImmSymbol
)

// Immediate is the tagged sum type an Imm/ImmWReg argument slot holds: a
// resolved signed 32-bit integer, a 64-bit float, or an unresolved label
// reference. The Symbol variant does not survive past the resolution pass in
// resolve.go; the decoder/executor never observes it.
type Immediate struct {
	Kind   ImmediateKind
	Int    int32
	Float  float64
	Symbol string
}

func IntImmediate(v int32) Immediate      { return Immediate{Kind: ImmInt, Int: v} }
func FloatImmediate(v float64) Immediate  { return Immediate{Kind: ImmFloat, Float: v} }
func SymbolImmediate(name string) Immediate { return Immediate{Kind: ImmSymbol, Symbol: name} }

// Argument is one parsed operand slot: which ArgumentType it was declared
// as, and the payload that matches it.
type Argument struct {
	Type isa.ArgumentType
	Reg  isa.Register // Reg / Freg
	Imm  Immediate    // Imm, and the displacement half of ImmWReg
	Base isa.Register // the register half of ImmWReg
}

// Instruction is one parsed, not-yet-encoded source instruction.
type Instruction struct {
	Info *isa.InstructionInfo
	Args [3]Argument
	PC   int64
	Pos  Position
	Line string
}

// Program is everything assembling one source file produces: the resolved
// instruction list and the finished data image.
type Program struct {
	Instructions []*Instruction
	DataImage    [isa.ImageSize]byte
	DataLen      int64
	Labels       *SymbolTable
}
