package parser

import "github.com/lookbusy1344/mips-toolchain/isa"

// resolveSymbols is the parser's second pass: it walks every parsed
// instruction and replaces each symbolic immediate with the address its
// label resolved to. Running it twice on an already-resolved instruction
// list is a no-op, since no Imm slot holds ImmSymbol afterwards.
func (p *Parser) resolveSymbols() {
	for _, inst := range p.instructions {
		for i := 0; i < inst.Info.ArgCount; i++ {
			switch inst.Info.ArgTypes[i] {
			case isa.ArgImm:
				p.resolveImmediate(inst, &inst.Args[i].Imm)
			case isa.ArgImmWReg:
				p.resolveImmediate(inst, &inst.Args[i].Imm)
			}
		}
	}
}

func (p *Parser) resolveImmediate(inst *Instruction, imm *Immediate) {
	if imm.Kind != ImmSymbol {
		return
	}
	addr, ok := p.labels.Lookup(imm.Symbol)
	if !ok {
		p.errorAt(Token{Pos: inst.Pos}, "undefined label %q", imm.Symbol)
		return
	}
	*imm = IntImmediate(int32(addr))
}
