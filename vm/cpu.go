package vm

import "github.com/lookbusy1344/mips-toolchain/isa"

// CPU holds the processor-visible state: 32 integer registers and 32
// floating-point registers addressed through the single isa.Register
// enumeration, the program counter, the one-bit floating-point compare
// flag, and a free-running clock used only for trace output.
type CPU struct {
	Regs  [32]uint64
	FRegs [32]float64

	PC     uint64
	FPFlag bool
	Halted bool
	Clock  uint64
}

// NewCPU returns a CPU with all registers zeroed and the PC at 0.
func NewCPU() *CPU {
	return &CPU{}
}

// Reset returns the CPU to its power-on state.
func (c *CPU) Reset() {
	*c = CPU{}
}

// Reg reads an integer register. r0 always reads as 0, matching the
// reference CPU, which never special-cases it on write either — writes to
// r0 are simply discarded by SetReg.
func (c *CPU) Reg(r isa.Register) uint64 {
	i := r.Index()
	if i == 0 {
		return 0
	}
	return c.Regs[i]
}

// SetReg writes an integer register. Writes to r0 are silently discarded.
func (c *CPU) SetReg(r isa.Register, v uint64) {
	if i := r.Index(); i != 0 {
		c.Regs[i] = v
	}
}

// FReg reads a floating-point register.
func (c *CPU) FReg(r isa.Register) float64 {
	return c.FRegs[r.Index()]
}

// SetFReg writes a floating-point register.
func (c *CPU) SetFReg(r isa.Register, v float64) {
	c.FRegs[r.Index()] = v
}
