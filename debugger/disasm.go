package debugger

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/vm"
)

// describeDecoded renders a decoded instruction word back into mnemonic
// form for the disassembly panel, matching the textual shape used by the
// command-line "sim --insn" printer.
func describeDecoded(d *vm.Decoded) string {
	var b strings.Builder
	b.WriteString(d.Info.Name)

	regs := []isa.Register{d.Reg0, d.Reg1, d.Reg2}
	for i := 0; i < d.Info.ArgCount; i++ {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		switch d.Info.ArgTypes[i] {
		case isa.ArgImmWReg:
			fmt.Fprintf(&b, "%d(%s)", d.Imm, regs[i])
		case isa.ArgImm:
			fmt.Fprintf(&b, "%d", d.Imm)
		default:
			fmt.Fprintf(&b, "%s", regs[i])
		}
	}
	return b.String()
}
