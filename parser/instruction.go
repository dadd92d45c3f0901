package parser

import (
	"github.com/lookbusy1344/mips-toolchain/isa"
)

// parseInstruction consumes a composite mnemonic (up to three dot-joined
// identifiers, e.g. "add.d", "cvt.d.l", "c.lt.d") followed by its argument
// list, and appends the resulting Instruction to the pending list.
func (p *Parser) parseInstruction() {
	start := p.current()
	name := p.readMnemonicName()

	info, ok := isa.Lookup(name)
	if !ok {
		p.errorAt(start, "unknown mnemonic %q", name)
		return
	}

	inst := &Instruction{Info: info, PC: p.currentPC, Pos: start.Pos}

	for i := 0; i < info.ArgCount; i++ {
		if i > 0 {
			if p.current().Type != Comma {
				p.errorAt(start, "expected ',' before argument %d of %q", i+1, name)
				break
			}
			p.advance()
		}
		arg, ok := p.parseArgument(start, info.ArgTypes[i])
		if !ok {
			continue
		}
		inst.Args[i] = arg
	}

	p.instructions = append(p.instructions, inst)
	p.currentPC += isa.InstructionWidth
}

// readMnemonicName reassembles a dotted mnemonic from its Identifier and
// Dot tokens (the lexer tokenizes "add.d" as Identifier("add"), Dot,
// Identifier("d")).
func (p *Parser) readMnemonicName() string {
	name := p.advance().Literal
	for p.current().Type == Dot && p.peek(1).Type == Identifier {
		p.advance() // '.'
		name += "." + p.advance().Literal
	}
	return name
}

func (p *Parser) parseArgument(mnemTok Token, want isa.ArgumentType) (Argument, bool) {
	switch want {
	case isa.ArgReg:
		return p.parseRegisterArg(mnemTok, false)
	case isa.ArgFreg:
		return p.parseRegisterArg(mnemTok, true)
	case isa.ArgImm:
		imm, ok := p.parseImmediate(mnemTok)
		return Argument{Type: isa.ArgImm, Imm: imm}, ok
	case isa.ArgImmWReg:
		return p.parseImmWReg(mnemTok)
	}
	return Argument{}, false
}

func (p *Parser) parseRegisterArg(mnemTok Token, wantFloat bool) (Argument, bool) {
	tok := p.current()
	if tok.Type != Identifier {
		p.errorAt(mnemTok, "expected a register argument, got %s", tok.Type)
		return Argument{}, false
	}
	p.advance()
	reg, ok := isa.LookupRegister(tok.Literal)
	if !ok {
		p.errorAt(tok, "unknown register %q", tok.Literal)
		return Argument{}, false
	}
	if reg.IsFloat() != wantFloat {
		p.errorAt(tok, "register %q is the wrong bank for this operand", tok.Literal)
		return Argument{}, false
	}
	argType := isa.ArgReg
	if wantFloat {
		argType = isa.ArgFreg
	}
	return Argument{Type: argType, Reg: reg}, true
}

func (p *Parser) parseImmediate(mnemTok Token) (Immediate, bool) {
	tok := p.current()
	switch tok.Type {
	case Integer:
		p.advance()
		v, err := parseIntegerLiteral(tok.Literal)
		if err != nil {
			p.errorAt(tok, "invalid integer literal %q", tok.Literal)
			return Immediate{}, false
		}
		return IntImmediate(int32(v)), true
	case Real:
		p.advance()
		v, err := parseFloatLiteral(tok.Literal)
		if err != nil {
			p.errorAt(tok, "invalid float literal %q", tok.Literal)
			return Immediate{}, false
		}
		return FloatImmediate(v), true
	case Identifier:
		p.advance()
		return SymbolImmediate(tok.Literal), true
	default:
		p.errorAt(mnemTok, "expected an immediate or label, got %s", tok.Type)
		return Immediate{}, false
	}
}

func (p *Parser) parseImmWReg(mnemTok Token) (Argument, bool) {
	imm, ok := p.parseImmediate(mnemTok)
	if !ok {
		return Argument{}, false
	}
	if p.current().Type != OpenParens {
		p.errorAt(mnemTok, "expected '(' after displacement")
		return Argument{}, false
	}
	p.advance()
	regTok := p.current()
	if regTok.Type != Identifier {
		p.errorAt(mnemTok, "expected a base register inside '(' ')'")
		return Argument{}, false
	}
	p.advance()
	reg, ok := isa.LookupRegister(regTok.Literal)
	if !ok || reg.IsFloat() {
		p.errorAt(regTok, "unknown or wrong-bank base register %q", regTok.Literal)
		return Argument{}, false
	}
	if p.current().Type != CloseParens {
		p.errorAt(mnemTok, "expected ')' after base register")
		return Argument{}, false
	}
	p.advance()
	return Argument{Type: isa.ArgImmWReg, Imm: imm, Base: reg}, true
}
