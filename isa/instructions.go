package isa

// Shape is the bitfield packing category an instruction's encoded word
// follows. Every mnemonic maps to exactly one.
type Shape uint8

const (
	ShapeI Shape = iota
	ShapeR
	ShapeJ
	ShapeF
	ShapeM
	ShapeB
)

// SubType tells the encoder which positional schema to read an
// InstructionData's argument slots with, and tells the decoder which
// semantic action to dispatch to.
type SubType uint8

const (
	SubNop SubType = iota
	SubHalt
	SubLoad
	SubStore
	SubFload
	SubFstore
	SubReg1I
	SubReg2I
	SubReg2S
	SubReg3
	SubReg3F
	SubReg2F
	SubReg2C
	SubRegID
	SubRegDI
	SubBranch
	SubJregn
	SubJump
	SubJreg
	SubBC
)

// ArgumentType constrains what an argument slot may hold, letting the parser
// enforce register-bank correctness structurally rather than at use time.
type ArgumentType uint8

const (
	ArgReg ArgumentType = iota
	ArgFreg
	ArgImm
	ArgImmWReg
)

// Mnemonic enumerates the 66 opcodes of the instruction set, in the order
// the reference ISA table declares them.
type Mnemonic uint8

const (
	LoadByte Mnemonic = iota
	LoadByteUnsigned
	StoreByte
	LoadHalfWord
	LoadHalfWordUnsigned
	StoreHalfWord
	LoadWord
	LoadWordUnsigned
	StoreWord
	LoadDoubleWord
	StoreDoubleWord
	LoadReal
	StoreReal
	Halt
	AddImmediate
	AddImmediateUnsigned
	LogicalAndImmediate
	LogicalOrImmediate
	LogicalXorImmediate
	LoadUpperImmediate
	SetLessThanImmediate
	SetLessThanImmediateUnsigned
	BranchIfEqual
	BranchIfNotEqual
	BranchIfZero
	BranchIfNotZero
	Jump
	JumpToReg
	JumpAndLink
	JumpAndLinkToReg
	ShiftLeftLogical
	ShiftRightLogical
	ShiftRightArithmetic
	ShiftLeftByVar
	ShiftRightByVar
	ShiftRightArithByVar
	MoveIfZero
	MoveIfNotZero
	Nop
	LogicalAnd
	LogicalOr
	LogicalXor
	SetLessThan
	SetLessThanUnsigned
	Add
	AddUnsigned
	Subtract
	SubtractUnsigned
	Multiply
	MultiplyUnsigned
	Divide
	DivideUnsigned
	AddReal
	SubtractReal
	MultiplyReal
	DivideReal
	MoveReal
	ConvertIntegerToReal
	ConvertRealToInteger
	SetFpFlagIfLessThan
	SetFpFlagIfLessThanOrEqual
	SetFpFlagIfEqual
	BranchIfFpFlagNotSet
	BranchIfFpFlagSet
	MoveDataFromIntegerToFp
	MoveDataFromFpToInteger

	mnemonicCount
)

// InstructionInfo is the static, per-mnemonic row both the encoder and the
// decoder key against: its source-text name, its argument schema, and its
// opcode layout.
type InstructionInfo struct {
	Name     string
	Op       Mnemonic
	ArgCount int
	ArgTypes [3]ArgumentType
	Shape    Shape
	Sub      SubType
	Base     uint32
}

// opcode primary/function codes, named after the source ISA's own constants.
const (
	special = 0x00
	cop1    = 0x11
	double  = 0x11
	mtc1Sub = 0x04
	mfc1Sub = 0x00
	bcSub   = 0x08

	iHalt   = 0x01
	iJ      = 0x02
	iJal    = 0x03
	iBeq    = 0x04
	iBne    = 0x05
	iBeqz   = 0x06
	iBnez   = 0x07
	iDaddi  = 0x18
	iDaddiu = 0x19
	iSlti   = 0x0A
	iSltiu  = 0x0B
	iAndi   = 0x0C
	iOri    = 0x0D
	iXori   = 0x0E
	iLui    = 0x0F
	iLb     = 0x20
	iLh     = 0x21
	iLw     = 0x23
	iLbu    = 0x24
	iLhu    = 0x25
	iLwu    = 0x27
	iSb     = 0x28
	iSh     = 0x29
	iSw     = 0x2B
	iLD     = 0x35
	iSD     = 0x3D
	iLd     = 0x37
	iSd     = 0x3F

	rNop   = 0x00
	rJr    = 0x08
	rJalr  = 0x09
	rMovz  = 0x0A
	rMovn  = 0x0B
	rDsllv = 0x14
	rDsrlv = 0x16
	rDsrav = 0x17
	rDmul  = 0x1C
	rDmulu = 0x1D
	rDdiv  = 0x1E
	rDdivu = 0x1F
	rAnd   = 0x24
	rOr    = 0x25
	rXor   = 0x26
	rSlt   = 0x2A
	rSltu  = 0x2B
	rDadd  = 0x2C
	rDaddu = 0x2D
	rDsub  = 0x2E
	rDsubu = 0x2F
	rDsll  = 0x38
	rDsrl  = 0x3A
	rDsra  = 0x3B

	fAddD   = 0x00
	fSubD   = 0x01
	fMulD   = 0x02
	fDivD   = 0x03
	fMovD   = 0x06
	fCvtDL  = 0x21
	fCvtLD  = 0x25
	fCLtD   = 0x3C
	fCLeD   = 0x3E
	fCEqD   = 0x32
)

// si, sr and sf place a primary/function code into the fixed bit positions
// its shape always occupies, leaving only the per-instruction register and
// immediate fields to be filled in at encode time.
func si(op uint32) uint32 { return op << 26 }
func sr(fn uint32) uint32 { return fn | (special << 26) }
func sf(fn uint32) uint32 { return fn | (cop1 << 26) | (double << 21) }

var (
	baseMTC1 = uint32(cop1<<26) | uint32(mtc1Sub<<21)
	baseMFC1 = uint32(cop1<<26) | uint32(mfcSub21())
	baseBC1F = uint32(cop1<<26) | uint32(bcSub<<21)
	baseBC1T = baseBC1F | (1 << 16)
)

func mfcSub21() uint32 { return mfc1Sub << 21 }

var instructions = buildInstructions()

func buildInstructions() [mnemonicCount]InstructionInfo {
	var t [mnemonicCount]InstructionInfo

	row := func(op Mnemonic, name string, shape Shape, sub SubType, base uint32, argc int, types ...ArgumentType) {
		info := InstructionInfo{Name: name, Op: op, ArgCount: argc, Shape: shape, Sub: sub, Base: base}
		copy(info.ArgTypes[:], types)
		t[op] = info
	}

	reg := ArgReg
	freg := ArgFreg
	imm := ArgImm
	immWReg := ArgImmWReg

	row(LoadByte, "lb", ShapeI, SubLoad, si(iLb), 2, reg, immWReg)
	row(LoadByteUnsigned, "lbu", ShapeI, SubLoad, si(iLbu), 2, reg, immWReg)
	row(StoreByte, "sb", ShapeI, SubStore, si(iSb), 2, reg, immWReg)
	row(LoadHalfWord, "lh", ShapeI, SubLoad, si(iLh), 2, reg, immWReg)
	row(LoadHalfWordUnsigned, "lhu", ShapeI, SubLoad, si(iLhu), 2, reg, immWReg)
	row(StoreHalfWord, "sh", ShapeI, SubStore, si(iSh), 2, reg, immWReg)
	row(LoadWord, "lw", ShapeI, SubLoad, si(iLw), 2, reg, immWReg)
	row(LoadWordUnsigned, "lwu", ShapeI, SubLoad, si(iLwu), 2, reg, immWReg)
	row(StoreWord, "sw", ShapeI, SubStore, si(iSw), 2, reg, immWReg)
	row(LoadDoubleWord, "ld", ShapeI, SubLoad, si(iLd), 2, reg, immWReg)
	row(StoreDoubleWord, "sd", ShapeI, SubStore, si(iSd), 2, reg, immWReg)
	row(LoadReal, "l.d", ShapeI, SubFload, si(iLD), 2, freg, immWReg)
	row(StoreReal, "s.d", ShapeI, SubFstore, si(iSD), 2, freg, immWReg)
	row(Halt, "halt", ShapeI, SubHalt, si(iHalt), 0)

	row(AddImmediate, "daddi", ShapeI, SubReg2I, si(iDaddi), 3, reg, reg, imm)
	row(AddImmediateUnsigned, "daddui", ShapeI, SubReg2I, si(iDaddiu), 3, reg, reg, imm)
	row(LogicalAndImmediate, "andi", ShapeI, SubReg2I, si(iAndi), 3, reg, reg, imm)
	row(LogicalOrImmediate, "ori", ShapeI, SubReg2I, si(iOri), 3, reg, reg, imm)
	row(LogicalXorImmediate, "xori", ShapeI, SubReg2I, si(iXori), 3, reg, reg, imm)
	row(LoadUpperImmediate, "lui", ShapeI, SubReg1I, si(iLui), 2, reg, imm)
	row(SetLessThanImmediate, "slti", ShapeI, SubReg2I, si(iSlti), 3, reg, reg, imm)
	row(SetLessThanImmediateUnsigned, "sltiu", ShapeI, SubReg2I, si(iSltiu), 3, reg, reg, imm)

	row(BranchIfEqual, "beq", ShapeI, SubBranch, si(iBeq), 3, reg, reg, imm)
	row(BranchIfNotEqual, "bne", ShapeI, SubBranch, si(iBne), 3, reg, reg, imm)
	row(BranchIfZero, "beqz", ShapeI, SubJregn, si(iBeqz), 2, reg, imm)
	row(BranchIfNotZero, "bnez", ShapeI, SubJregn, si(iBnez), 2, reg, imm)

	row(Jump, "j", ShapeJ, SubJump, si(iJ), 1, imm)
	row(JumpToReg, "jr", ShapeR, SubJreg, sr(rJr), 1, reg)
	row(JumpAndLink, "jal", ShapeJ, SubJump, si(iJal), 1, imm)
	row(JumpAndLinkToReg, "jalr", ShapeR, SubJreg, sr(rJalr), 1, reg)

	row(ShiftLeftLogical, "dsll", ShapeR, SubReg2S, sr(rDsll), 3, reg, reg, imm)
	row(ShiftRightLogical, "dsrl", ShapeR, SubReg2S, sr(rDsrl), 3, reg, reg, imm)
	row(ShiftRightArithmetic, "dsra", ShapeR, SubReg2S, sr(rDsra), 3, reg, reg, imm)
	row(ShiftLeftByVar, "dsllv", ShapeR, SubReg3, sr(rDsllv), 3, reg, reg, reg)
	row(ShiftRightByVar, "dsrlv", ShapeR, SubReg3, sr(rDsrlv), 3, reg, reg, reg)
	row(ShiftRightArithByVar, "dsrav", ShapeR, SubReg3, sr(rDsrav), 3, reg, reg, reg)
	row(MoveIfZero, "movz", ShapeR, SubReg3, sr(rMovz), 3, reg, reg, reg)
	row(MoveIfNotZero, "movn", ShapeR, SubReg3, sr(rMovn), 3, reg, reg, reg)
	row(Nop, "nop", ShapeR, SubNop, sr(rNop), 0)

	row(LogicalAnd, "and", ShapeR, SubReg3, sr(rAnd), 3, reg, reg, reg)
	row(LogicalOr, "or", ShapeR, SubReg3, sr(rOr), 3, reg, reg, reg)
	row(LogicalXor, "xor", ShapeR, SubReg3, sr(rXor), 3, reg, reg, reg)
	row(SetLessThan, "slt", ShapeR, SubReg3, sr(rSlt), 3, reg, reg, reg)
	row(SetLessThanUnsigned, "sltu", ShapeR, SubReg3, sr(rSltu), 3, reg, reg, reg)
	row(Add, "dadd", ShapeR, SubReg3, sr(rDadd), 3, reg, reg, reg)
	row(AddUnsigned, "daddu", ShapeR, SubReg3, sr(rDaddu), 3, reg, reg, reg)
	row(Subtract, "dsub", ShapeR, SubReg3, sr(rDsub), 3, reg, reg, reg)
	row(SubtractUnsigned, "dsubu", ShapeR, SubReg3, sr(rDsubu), 3, reg, reg, reg)
	row(Multiply, "dmul", ShapeR, SubReg3, sr(rDmul), 3, reg, reg, reg)
	row(MultiplyUnsigned, "dmulu", ShapeR, SubReg3, sr(rDmulu), 3, reg, reg, reg)
	row(Divide, "ddiv", ShapeR, SubReg3, sr(rDdiv), 3, reg, reg, reg)
	row(DivideUnsigned, "ddivu", ShapeR, SubReg3, sr(rDdivu), 3, reg, reg, reg)

	row(AddReal, "add.d", ShapeF, SubReg3F, sf(fAddD), 3, freg, freg, freg)
	row(SubtractReal, "sub.d", ShapeF, SubReg3F, sf(fSubD), 3, freg, freg, freg)
	row(MultiplyReal, "mul.d", ShapeF, SubReg3F, sf(fMulD), 3, freg, freg, freg)
	row(DivideReal, "div.d", ShapeF, SubReg3F, sf(fDivD), 3, freg, freg, freg)
	row(MoveReal, "mov.d", ShapeF, SubReg2F, sf(fMovD), 2, freg, freg)
	row(ConvertIntegerToReal, "cvt.d.l", ShapeF, SubReg2F, sf(fCvtDL), 2, freg, freg)
	row(ConvertRealToInteger, "cvt.l.d", ShapeF, SubReg2F, sf(fCvtLD), 2, freg, freg)
	row(SetFpFlagIfLessThan, "c.lt.d", ShapeF, SubReg2C, sf(fCLtD), 2, freg, freg)
	row(SetFpFlagIfLessThanOrEqual, "c.le.d", ShapeF, SubReg2C, sf(fCLeD), 2, freg, freg)
	row(SetFpFlagIfEqual, "c.eq.d", ShapeF, SubReg2C, sf(fCEqD), 2, freg, freg)

	row(BranchIfFpFlagNotSet, "bc1f", ShapeB, SubBC, baseBC1F, 1, imm)
	row(BranchIfFpFlagSet, "bc1t", ShapeB, SubBC, baseBC1T, 1, imm)
	row(MoveDataFromIntegerToFp, "mtc1", ShapeM, SubRegID, baseMTC1, 2, reg, freg)
	row(MoveDataFromFpToInteger, "mfc1", ShapeM, SubRegDI, baseMFC1, 2, reg, freg)

	return t
}

var byName = buildByName()

func buildByName() map[string]*InstructionInfo {
	m := make(map[string]*InstructionInfo, len(instructions))
	for i := range instructions {
		m[instructions[i].Name] = &instructions[i]
	}
	return m
}

// Lookup resolves a composite mnemonic (e.g. "add.d", "daddi") to its info.
func Lookup(name string) (*InstructionInfo, bool) {
	info, ok := byName[name]
	return info, ok
}

// Info returns the static row for a Mnemonic value.
func Info(op Mnemonic) *InstructionInfo { return &instructions[op] }
