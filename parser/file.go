package parser

import "strings"

// Assemble runs the full front end — lex then two-pass parse — over a
// single source file's text, returning the finished Program or the first
// phase's accumulated ErrorList.
func Assemble(filename, source string) (*Program, error) {
	lines := strings.Split(source, "\n")
	lexer := NewLexer(filename, source)
	tokens, err := lexer.TokenizeAll()
	if err != nil {
		return nil, err
	}
	p := NewParser(filename, tokens, lines)
	return p.Parse()
}
