package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds a caller can test for with errors.Is, mirroring the error
// taxonomy the toolchain as a whole uses (see isa/vm package docs).
var (
	ErrTokenize = errors.New("tokenize error")
	ErrParse    = errors.New("parse error")
)

// Position locates a single token or error in source text.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line+1, p.Column+1)
}

// SourceError is one accumulated tokenize or parse failure, carrying enough
// context to reproduce the reference tool's diagnostic line.
type SourceError struct {
	Pos     Position
	Message string
	Line    string
	Kind    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("error: %s at %s (full line: %s)", e.Message, e.Pos, e.Line)
}

func (e *SourceError) Unwrap() error { return e.Kind }

func newError(kind error, pos Position, line, message string, args ...any) *SourceError {
	return &SourceError{Pos: pos, Message: fmt.Sprintf(message, args...), Line: line, Kind: kind}
}

// ErrorList accumulates every SourceError raised during tokenizing and
// parsing. Neither phase aborts on the first error; both report everything
// they found.
type ErrorList struct {
	Errors []*SourceError
}

func (l *ErrorList) add(e *SourceError) { l.Errors = append(l.Errors, e) }

// HasErrors reports whether any error was recorded.
func (l *ErrorList) HasErrors() bool { return len(l.Errors) > 0 }

// Error renders every accumulated error, one per line, in source order.
func (l *ErrorList) Error() string {
	var b strings.Builder
	for _, e := range l.Errors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
