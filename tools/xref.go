// Package tools holds the assembler's developer conveniences: a symbol
// cross-referencer, a source re-formatter, and a structural linter. None of
// them change assembler or simulator semantics; all of them work from the
// same lexer/parser front end the assembler itself uses.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

// LabelRef is one instruction that addresses a label, identified by the
// line it appears on and the mnemonic doing the addressing.
type LabelRef struct {
	Line     int
	Mnemonic string
}

// LabelInfo is a label's resolved address and everywhere it is referenced.
// A label with no References was defined but never used.
type LabelInfo struct {
	Name       string
	Address    int64
	References []LabelRef
}

// CrossReference walks an assembled program's label table and instruction
// list and reports, per label, its resolved address and every instruction
// whose resolved immediate matches it. Symbolic immediates no longer carry
// their original label name by this point (resolution replaces them with a
// plain address in resolve.go), so a reference is recognized by value: any
// instruction argument slot typed Imm or ImmWReg whose resolved int matches
// a label's address counts as a reference to that label.
func CrossReference(prog *parser.Program) []*LabelInfo {
	byAddr := make(map[int64][]*LabelInfo)
	infos := make([]*LabelInfo, 0, len(prog.Labels.Names()))

	names := prog.Labels.Names()
	sort.Strings(names)
	for _, name := range names {
		addr, ok := prog.Labels.Lookup(name)
		if !ok {
			continue
		}
		info := &LabelInfo{Name: name, Address: addr}
		infos = append(infos, info)
		byAddr[addr] = append(byAddr[addr], info)
	}

	for _, inst := range prog.Instructions {
		for i := 0; i < inst.Info.ArgCount; i++ {
			switch inst.Info.ArgTypes[i] {
			case isa.ArgImm, isa.ArgImmWReg:
			default:
				continue
			}
			v := int64(inst.Args[i].Imm.Int)
			for _, info := range byAddr[v] {
				info.References = append(info.References, LabelRef{
					Line:     inst.Pos.Line + 1,
					Mnemonic: inst.Info.Name,
				})
			}
		}
	}

	return infos
}

// Unreferenced returns the labels CrossReference found no addressing
// instruction for.
func Unreferenced(labels []*LabelInfo) []*LabelInfo {
	var out []*LabelInfo
	for _, l := range labels {
		if len(l.References) == 0 {
			out = append(out, l)
		}
	}
	return out
}

// Report renders a cross-reference listing as plain text, one block per
// label in name order, each followed by its referencing lines or a
// "never referenced" marker.
func Report(labels []*LabelInfo) string {
	var b strings.Builder
	b.WriteString("Symbol Cross-Reference\n")
	b.WriteString("=======================\n")
	for _, l := range labels {
		fmt.Fprintf(&b, "\n%-24s 0x%08X\n", l.Name, l.Address)
		if len(l.References) == 0 {
			b.WriteString("  (never referenced)\n")
			continue
		}
		for _, ref := range l.References {
			fmt.Fprintf(&b, "  line %d: %s\n", ref.Line, ref.Mnemonic)
		}
	}
	return b.String()
}
