package vm

import (
	"fmt"
	"io"
	"math"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

// StepEvent is an immutable snapshot broadcast after each Step, consumed by
// the debugger and GUI front ends. The simulator never reads anything back
// through it; it is write-only from the VM's perspective.
type StepEvent struct {
	Clock  uint64
	PC     uint64
	Halted bool
}

// VM ties a CPU to its code and data images and runs the fetch-decode-
// execute loop against them.
type VM struct {
	CPU    *CPU
	Memory *Memory
	Code   *CodeImage

	// MaxCycles stops Run once CPU.Clock reaches it; 0 means unlimited.
	MaxCycles uint64

	// Trace, if non-nil, receives one dump.txt-formatted block per step.
	Trace io.Writer

	// Events, if non-nil, receives a StepEvent after every step. Sends are
	// non-blocking: a subscriber that falls behind simply misses events
	// rather than stalling the simulator.
	Events chan<- StepEvent
}

// NewVM wires a CPU, data memory and code image into a runnable VM.
func NewVM(code *CodeImage, mem *Memory) *VM {
	return &VM{CPU: NewCPU(), Memory: mem, Code: code}
}

// Step fetches, decodes and executes exactly one instruction, then
// unconditionally advances the program counter by one instruction width
// and the clock by one tick — matching the reference CPU's run loop, which
// applies this advance after every instruction regardless of what the
// instruction itself did to the PC. Branch and jump actions compensate for
// this by adding their (possibly pre-scaled) displacement directly, or by
// subtracting the instruction width from an absolute target first.
func (vm *VM) Step() error {
	if vm.CPU.Halted {
		return nil
	}

	word, err := vm.Code.FetchAt(vm.CPU.PC)
	if err != nil {
		return err
	}
	d, err := Decode(word)
	if err != nil {
		return err
	}

	if err := vm.execute(d); err != nil {
		return err
	}

	vm.CPU.PC += isa.InstructionWidth
	vm.CPU.Clock++

	if vm.Trace != nil {
		if err := vm.WriteTrace(vm.Trace); err != nil {
			return err
		}
	}
	if vm.Events != nil {
		select {
		case vm.Events <- StepEvent{Clock: vm.CPU.Clock, PC: vm.CPU.PC, Halted: vm.CPU.Halted}:
		default:
		}
	}
	return nil
}

// Run steps the VM until it halts, hits an error, or reaches MaxCycles
// (when MaxCycles is non-zero). Reaching MaxCycles without halting returns
// ErrCycleLimit.
func (vm *VM) Run() error {
	for !vm.CPU.Halted {
		if vm.MaxCycles != 0 && vm.CPU.Clock >= vm.MaxCycles {
			return ErrCycleLimit
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

func signExt8(v uint8) uint64    { return uint64(int64(int8(v))) }
func signExt16b(v uint16) uint64 { return uint64(int64(int16(v))) }
func signExt32(v uint32) uint64  { return uint64(int64(int32(v))) }

func (vm *VM) execute(d *Decoded) error {
	cpu := vm.CPU
	mem := vm.Memory

	switch d.Info.Op {
	case isa.Halt:
		cpu.Halted = true

	case isa.Nop:
		// no-op

	// loads / stores
	case isa.LoadByte:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, signExt8(v))
	case isa.LoadByteUnsigned:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, uint64(v))
	case isa.StoreByte:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		if err := mem.WriteByte(addr, byte(cpu.Reg(d.Reg0))); err != nil {
			return err
		}
	case isa.LoadHalfWord:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadHalf(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, signExt16b(v))
	case isa.LoadHalfWordUnsigned:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadHalf(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, uint64(v))
	case isa.StoreHalfWord:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		if err := mem.WriteHalf(addr, uint16(cpu.Reg(d.Reg0))); err != nil {
			return err
		}
	case isa.LoadWord:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadWord(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, signExt32(v))
	case isa.LoadWordUnsigned:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadWord(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, uint64(v))
	case isa.StoreWord:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		if err := mem.WriteWord(addr, uint32(cpu.Reg(d.Reg0))); err != nil {
			return err
		}
	case isa.LoadDoubleWord:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadDouble(addr)
		if err != nil {
			return err
		}
		cpu.SetReg(d.Reg0, v)
	case isa.StoreDoubleWord:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		if err := mem.WriteDouble(addr, cpu.Reg(d.Reg0)); err != nil {
			return err
		}
	case isa.LoadReal:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		v, err := mem.ReadDouble(addr)
		if err != nil {
			return err
		}
		cpu.SetFReg(d.Reg0, math.Float64frombits(v))
	case isa.StoreReal:
		addr := int64(cpu.Reg(d.Reg1)) + int64(d.Imm)
		if err := mem.WriteDouble(addr, math.Float64bits(cpu.FReg(d.Reg0))); err != nil {
			return err
		}

	// immediate arithmetic/logic
	case isa.AddImmediate, isa.AddImmediateUnsigned:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)+uint64(int64(d.Imm)))
	case isa.LogicalAndImmediate:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)&uint64(uint16(d.Imm)))
	case isa.LogicalOrImmediate:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)|uint64(uint16(d.Imm)))
	case isa.LogicalXorImmediate:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)^uint64(uint16(d.Imm)))
	case isa.LoadUpperImmediate:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg0)|(uint64(int64(d.Imm))<<32))
	case isa.SetLessThanImmediate:
		if int64(cpu.Reg(d.Reg1)) < int64(d.Imm) {
			cpu.SetReg(d.Reg0, 1)
		} else {
			cpu.SetReg(d.Reg0, 0)
		}
	case isa.SetLessThanImmediateUnsigned:
		if cpu.Reg(d.Reg1) < uint64(int64(d.Imm)) {
			cpu.SetReg(d.Reg0, 1)
		} else {
			cpu.SetReg(d.Reg0, 0)
		}

	// branches and jumps
	case isa.BranchIfEqual:
		if cpu.Reg(d.Reg0) == cpu.Reg(d.Reg1) {
			cpu.PC += uint64(int64(d.Imm))
		}
	case isa.BranchIfNotEqual:
		if cpu.Reg(d.Reg0) != cpu.Reg(d.Reg1) {
			cpu.PC += uint64(int64(d.Imm))
		}
	case isa.BranchIfZero:
		if cpu.Reg(d.Reg0) == 0 {
			cpu.PC += uint64(int64(d.Imm) * 4)
		}
	case isa.BranchIfNotZero:
		if cpu.Reg(d.Reg0) != 0 {
			cpu.PC += uint64(int64(d.Imm) * 4)
		}
	case isa.Jump:
		cpu.PC += uint64(int64(d.Imm) * 4)
	case isa.JumpAndLink:
		cpu.SetReg(isa.IntReg(31), cpu.PC+isa.InstructionWidth)
		cpu.PC += uint64(int64(d.Imm) * 4)
	case isa.JumpToReg:
		cpu.PC = cpu.Reg(d.Reg0) - isa.InstructionWidth
	case isa.JumpAndLinkToReg:
		cpu.SetReg(isa.IntReg(31), cpu.PC+isa.InstructionWidth)
		cpu.PC = cpu.Reg(d.Reg0) - isa.InstructionWidth

	// shifts
	case isa.ShiftLeftLogical:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)<<uint(d.Imm&0x3F))
	case isa.ShiftRightLogical:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)>>uint(d.Imm&0x3F))
	case isa.ShiftRightArithmetic:
		shamt := uint(d.Imm & 0x3F)
		cpu.SetReg(d.Reg0, (cpu.Reg(d.Reg1)>>shamt)|(cpu.Reg(d.Reg1)&(1<<63)))
	case isa.ShiftLeftByVar:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)<<uint(cpu.Reg(d.Reg2)&0x3F))
	case isa.ShiftRightByVar:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)>>uint(cpu.Reg(d.Reg2)&0x3F))
	case isa.ShiftRightArithByVar:
		shamt := uint(cpu.Reg(d.Reg2) & 0x3F)
		cpu.SetReg(d.Reg0, (cpu.Reg(d.Reg1)>>shamt)|(cpu.Reg(d.Reg1)&(1<<63)))

	// conditional move
	case isa.MoveIfZero:
		if cpu.Reg(d.Reg2) == 0 {
			cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1))
		}
	case isa.MoveIfNotZero:
		if cpu.Reg(d.Reg2) != 0 {
			cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1))
		}

	// integer register-register
	case isa.LogicalAnd:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)&cpu.Reg(d.Reg2))
	case isa.LogicalOr:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)|cpu.Reg(d.Reg2))
	case isa.LogicalXor:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)^cpu.Reg(d.Reg2))
	case isa.SetLessThan:
		if int64(cpu.Reg(d.Reg1)) < int64(cpu.Reg(d.Reg2)) {
			cpu.SetReg(d.Reg0, 1)
		} else {
			cpu.SetReg(d.Reg0, 0)
		}
	case isa.SetLessThanUnsigned:
		if cpu.Reg(d.Reg1) < cpu.Reg(d.Reg2) {
			cpu.SetReg(d.Reg0, 1)
		} else {
			cpu.SetReg(d.Reg0, 0)
		}
	case isa.Add, isa.AddUnsigned:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)+cpu.Reg(d.Reg2))
	case isa.Subtract, isa.SubtractUnsigned:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)-cpu.Reg(d.Reg2))
	case isa.Multiply:
		cpu.SetReg(d.Reg0, uint64(int64(cpu.Reg(d.Reg1))*int64(cpu.Reg(d.Reg2))))
	case isa.MultiplyUnsigned:
		cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)*cpu.Reg(d.Reg2))
	case isa.Divide:
		divisor := int64(cpu.Reg(d.Reg2))
		if divisor == 0 {
			cpu.SetReg(d.Reg0, 0)
		} else {
			cpu.SetReg(d.Reg0, uint64(int64(cpu.Reg(d.Reg1))/divisor))
		}
	case isa.DivideUnsigned:
		divisor := cpu.Reg(d.Reg2)
		if divisor == 0 {
			cpu.SetReg(d.Reg0, 0)
		} else {
			cpu.SetReg(d.Reg0, cpu.Reg(d.Reg1)/divisor)
		}

	// floating point
	case isa.AddReal:
		cpu.SetFReg(d.Reg0, cpu.FReg(d.Reg1)+cpu.FReg(d.Reg2))
	case isa.SubtractReal:
		cpu.SetFReg(d.Reg0, cpu.FReg(d.Reg1)-cpu.FReg(d.Reg2))
	case isa.MultiplyReal:
		cpu.SetFReg(d.Reg0, cpu.FReg(d.Reg1)*cpu.FReg(d.Reg2))
	case isa.DivideReal:
		cpu.SetFReg(d.Reg0, cpu.FReg(d.Reg1)/cpu.FReg(d.Reg2))
	case isa.MoveReal:
		cpu.SetFReg(d.Reg0, cpu.FReg(d.Reg1))
	case isa.ConvertIntegerToReal:
		// cvt.d.l: the source bit pattern is read as a u64 and numerically
		// converted to a double, not reinterpreted.
		cpu.SetFReg(d.Reg0, float64(math.Float64bits(cpu.FReg(d.Reg1))))
	case isa.ConvertRealToInteger:
		// cvt.l.d: the source double is truncated to a u64, then that u64's
		// bits are reinterpreted as a double (the preserved reference quirk).
		cpu.SetFReg(d.Reg0, math.Float64frombits(uint64(cpu.FReg(d.Reg1))))
	case isa.SetFpFlagIfLessThan:
		cpu.FPFlag = cpu.FReg(d.Reg0) < cpu.FReg(d.Reg1)
	case isa.SetFpFlagIfLessThanOrEqual:
		cpu.FPFlag = cpu.FReg(d.Reg0) <= cpu.FReg(d.Reg1)
	case isa.SetFpFlagIfEqual:
		cpu.FPFlag = cpu.FReg(d.Reg0) == cpu.FReg(d.Reg1)
	case isa.BranchIfFpFlagNotSet:
		if !cpu.FPFlag {
			cpu.PC += uint64(int64(d.Imm) * 4)
		}
	case isa.BranchIfFpFlagSet:
		if cpu.FPFlag {
			cpu.PC += uint64(int64(d.Imm) * 4)
		}
	case isa.MoveDataFromIntegerToFp:
		cpu.SetFReg(d.Reg1, float64(cpu.Reg(d.Reg0)))
	case isa.MoveDataFromFpToInteger:
		cpu.SetReg(d.Reg0, uint64(cpu.FReg(d.Reg1)))

	default:
		return fmt.Errorf("%w: %s has no executor case", ErrDecode, d.Info.Name)
	}
	return nil
}
