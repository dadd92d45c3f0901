package parser

import (
	"github.com/lookbusy1344/mips-toolchain/isa"
)

// Section is the source-file region currently being parsed; it selects
// which cursor and image directive effects land in.
type Section int

const (
	SectionNone Section = iota
	SectionData
	SectionText
)

// Parser is the section-aware, two-pass consumer of a lexed token stream.
// The first pass walks the tokens left to right, applying directive effects
// to the data image in source order and building the pending instruction
// list; the second pass (resolve.go) replaces symbolic immediates with their
// resolved addresses.
type Parser struct {
	filename string
	tokens   []Token
	lines    []string
	pos      int

	section        Section
	currentAddress int64
	currentPC      int64

	labels       *SymbolTable
	instructions []*Instruction
	dataImage    [isa.ImageSize]byte
	dataLen      int64

	errs ErrorList
}

// NewParser constructs a Parser over an already-lexed token stream. lines is
// the original source split by newline, used only to render the "full line"
// portion of error messages.
func NewParser(filename string, tokens []Token, lines []string) *Parser {
	return &Parser{
		filename: filename,
		tokens:   tokens,
		lines:    lines,
		labels:   NewSymbolTable(),
	}
}

// Parse runs both passes and returns the finished Program, or the
// accumulated ErrorList if either pass found anything wrong.
func (p *Parser) Parse() (*Program, error) {
	p.firstPass()
	if p.errs.HasErrors() {
		return nil, &p.errs
	}
	p.resolveSymbols()
	if p.errs.HasErrors() {
		return nil, &p.errs
	}
	prog := &Program{
		Instructions: p.instructions,
		DataLen:      p.dataLen,
		Labels:       p.labels,
	}
	prog.DataImage = p.dataImage
	return prog, nil
}

func (p *Parser) atEOF() bool { return p.pos >= len(p.tokens) }

func (p *Parser) current() Token {
	if p.atEOF() {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.current()
	if !p.atEOF() {
		p.pos++
	}
	return tok
}

func (p *Parser) errorAt(tok Token, format string, args ...any) {
	line := ""
	if tok.Pos.Line >= 0 && tok.Pos.Line < len(p.lines) {
		line = p.lines[tok.Pos.Line]
	}
	p.errs.add(newError(ErrParse, tok.Pos, line, format, args...))
}

func (p *Parser) firstPass() {
	for !p.atEOF() {
		tok := p.current()
		switch tok.Type {
		case Label:
			p.parseLabel()
		case Dot:
			p.parseDirectiveStmt()
		case Identifier:
			if p.section == SectionText {
				p.parseInstruction()
			} else {
				p.errorAt(tok, "unexpected identifier %q outside text section", tok.Literal)
				p.advance()
			}
		default:
			p.errorAt(tok, "unexpected token %s", tok.Type)
			p.advance()
		}
	}
}

func (p *Parser) parseLabel() {
	tok := p.advance()
	if p.current().Type != Colon {
		p.errorAt(tok, "expected ':' after label %q", tok.Literal)
		return
	}
	p.advance()
	if p.section == SectionNone {
		p.errorAt(tok, "label %q defined before any section directive", tok.Literal)
		return
	}
	addr := p.currentPC
	if p.section == SectionData {
		addr = p.currentAddress
	}
	if err := p.labels.Define(tok.Literal, addr); err != nil {
		p.errorAt(tok, "%v", err)
	}
}

func (p *Parser) parseDirectiveStmt() {
	p.advance() // '.'
	nameTok := p.current()
	if nameTok.Type != Directive {
		p.errorAt(nameTok, "unknown directive %q", nameTok.Literal)
		p.advance()
		return
	}
	p.advance()
	dir, ok := isa.LookupDirective(nameTok.Literal)
	if !ok {
		p.errorAt(nameTok, "unknown directive %q", nameTok.Literal)
		return
	}

	if p.section == SectionNone {
		switch dir {
		case isa.DirData:
			p.section = SectionData
		case isa.DirText, isa.DirCode:
			p.section = SectionText
		default:
			p.errorAt(nameTok, "expected a section directive before %q", nameTok.Literal)
		}
		return
	}

	if p.section == SectionText {
		switch dir {
		case isa.DirData, isa.DirText, isa.DirCode, isa.DirOrg:
		default:
			p.errorAt(nameTok, "directive %q not allowed in text section", nameTok.Literal)
			return
		}
	}

	switch dir {
	case isa.DirData:
		p.section = SectionData
	case isa.DirText, isa.DirCode:
		p.section = SectionText
	case isa.DirOrg:
		p.handleOrg(nameTok)
	case isa.DirAlign:
		p.handleAlign(nameTok)
	case isa.DirSpace:
		p.handleSpace(nameTok)
	case isa.DirAscii:
		p.handleAscii(nameTok, false)
	case isa.DirAsciiz:
		p.handleAscii(nameTok, true)
	case isa.DirByte, isa.DirWord16, isa.DirWord32, isa.DirWord, isa.DirDouble:
		p.handleList(nameTok, dir)
	}
}

func (p *Parser) expectInt(dirTok Token) (int64, bool) {
	tok := p.current()
	if tok.Type != Integer {
		p.errorAt(dirTok, "expected an integer argument for %q", dirTok.Literal)
		return 0, false
	}
	p.advance()
	v, err := parseIntegerLiteral(tok.Literal)
	if err != nil {
		p.errorAt(tok, "invalid integer literal %q", tok.Literal)
		return 0, false
	}
	return v, true
}

func (p *Parser) handleOrg(dirTok Token) {
	n, ok := p.expectInt(dirTok)
	if !ok {
		return
	}
	if p.section == SectionData {
		p.currentAddress = n
	} else {
		p.currentPC = n
	}
}

func (p *Parser) handleAlign(dirTok Token) {
	n, ok := p.expectInt(dirTok)
	if !ok || n <= 0 {
		return
	}
	p.currentAddress = alignUp(p.currentAddress, n)
}

func (p *Parser) handleSpace(dirTok Token) {
	n, ok := p.expectInt(dirTok)
	if !ok {
		return
	}
	p.currentAddress += n
	p.bumpDataLen(p.currentAddress)
}

func (p *Parser) handleAscii(dirTok Token, zeroTerminated bool) {
	tok := p.current()
	if tok.Type != String {
		p.errorAt(dirTok, "expected a string argument for %q", dirTok.Literal)
		return
	}
	p.advance()
	data := []byte(tok.Literal)
	if zeroTerminated {
		data = append(data, 0)
	}
	p.writeData(dirTok, p.currentAddress, data)
	p.currentAddress += int64(len(data))
}

func (p *Parser) handleList(dirTok Token, dir isa.Directive) {
	width, _ := dir.ListWidth()
	for {
		tok := p.current()
		switch tok.Type {
		case Integer:
			p.advance()
			v, err := parseIntegerLiteral(tok.Literal)
			if err != nil {
				p.errorAt(tok, "invalid integer literal %q", tok.Literal)
				break
			}
			buf := make([]byte, width)
			for i := 0; i < width; i++ {
				buf[i] = byte(v >> (8 * i))
			}
			p.writeData(tok, p.currentAddress, buf)
			p.currentAddress += int64(width)
		case Real:
			p.advance()
			v, err := parseFloatLiteral(tok.Literal)
			if err != nil {
				p.errorAt(tok, "invalid float literal %q", tok.Literal)
				break
			}
			buf := make([]byte, 8)
			putFloat64(buf, v)
			p.writeData(tok, p.currentAddress, buf)
			p.currentAddress += 8
		default:
			p.errorAt(dirTok, "expected a numeric literal in %q list", dirTok.Literal)
			return
		}
		if p.current().Type != Comma {
			break
		}
		p.advance()
	}
	p.currentAddress = alignUp(p.currentAddress, 8)
}

// alignUp mirrors the reference assembler's align_address: rounding val up
// to the next multiple of align, except that a value smaller than align is
// clamped directly up to align rather than to the nearest positive multiple
// below it. This is a preserved quirk (see DESIGN.md), not a bug fix.
func alignUp(val, align int64) int64 {
	if align <= 0 {
		return val
	}
	if val < align {
		return align
	}
	if rem := val % align; rem != 0 {
		val += align - rem
	}
	return val
}

func (p *Parser) bumpDataLen(addr int64) {
	if addr > p.dataLen {
		p.dataLen = addr
	}
}

func (p *Parser) writeData(tok Token, addr int64, data []byte) {
	if addr < 0 || addr+int64(len(data)) > isa.ImageSize {
		p.errorAt(tok, "data image overrun writing %d byte(s) at address 0x%X", len(data), addr)
		return
	}
	copy(p.dataImage[addr:], data)
	p.bumpDataLen(addr + int64(len(data)))
}

func putFloat64(buf []byte, v float64) {
	bits := float64Bits(v)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
}
