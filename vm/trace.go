package vm

import (
	"fmt"
	"io"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

// WriteTrace appends one dump.txt-formatted block for the VM's current
// state: a header line giving the clock and PC, then one line per register
// pair (integer register in hex, its paired floating-point register as a
// decimal), exactly as the reference simulator's per-step dump did.
func (vm *VM) WriteTrace(w io.Writer) error {
	cpu := vm.CPU
	if _, err := fmt.Fprintf(w, "At clock count = %d, pc = %d\n", cpu.Clock, cpu.PC); err != nil {
		return err
	}
	for i := 0; i < 32; i++ {
		_, err := fmt.Fprintf(w, "\tr%-2d = %016X    f%-2d = %016.8f\n",
			i, cpu.Regs[i], i, cpu.FRegs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteMemoryDump writes the data image out in the textual memdump.dat
// format: one line per 8-byte word, as a 4-hex-digit byte offset followed
// by the word's 16-hex-digit little-endian value.
func (vm *VM) WriteMemoryDump(w io.Writer) error {
	const wordSize = 8
	for addr := int64(0); addr < isa.ImageSize; addr += wordSize {
		word, err := vm.Memory.ReadDouble(addr)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%04X %016X\n", addr, word); err != nil {
			return err
		}
	}
	return nil
}
