package tools

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/parser"
)

// FormatOptions controls column placement when re-rendering source.
type FormatOptions struct {
	// InstructionColumn is where a mnemonic or directive starts when no
	// label occupies the line, and the minimum column a label's colon is
	// padded out to otherwise.
	InstructionColumn int
	// CommentColumn is where a trailing comment's ';' is placed, padded
	// with spaces if the rendered line is shorter.
	CommentColumn int
}

// DefaultFormatOptions matches the column layout used throughout this
// toolchain's own source tree.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{InstructionColumn: 8, CommentColumn: 40}
}

// CompactFormatOptions minimizes whitespace: mnemonics sit right after a
// label's colon and comments trail immediately after a single space.
func CompactFormatOptions() FormatOptions {
	return FormatOptions{InstructionColumn: 1, CommentColumn: 0}
}

// ExpandedFormatOptions widens both columns for a more spread-out listing.
func ExpandedFormatOptions() FormatOptions {
	return FormatOptions{InstructionColumn: 16, CommentColumn: 56}
}

// Formatter re-renders a tokenized source with consistent column alignment.
// It works a line at a time directly off the token stream rather than the
// resolved Program, since the lexer strips comments before the parser ever
// sees them (see lexer.go) and re-rendering is the only stage that still
// has the original comment text to place back.
type Formatter struct {
	options FormatOptions
}

// NewFormatter constructs a Formatter with the given column options.
func NewFormatter(options FormatOptions) *Formatter {
	return &Formatter{options: options}
}

// Format re-renders source, returning the lexer's accumulated error (if any)
// alongside a best-effort rendering of whatever tokenized cleanly.
func (f *Formatter) Format(source, filename string) (string, error) {
	lines := strings.Split(source, "\n")
	lexer := parser.NewLexer(filename, source)
	tokens, lexErr := lexer.TokenizeAll()

	byLine := make(map[int][]parser.Token)
	for _, tok := range tokens {
		byLine[tok.Pos.Line] = append(byLine[tok.Pos.Line], tok)
	}

	var out strings.Builder
	for i, raw := range lines {
		comment := extractComment(raw)
		rendered := f.renderLine(byLine[i])
		if rendered == "" && comment == "" {
			out.WriteByte('\n')
			continue
		}
		line := rendered
		if comment != "" {
			pad := f.options.CommentColumn - len(line)
			if pad < 1 {
				pad = 1
			}
			line += strings.Repeat(" ", pad) + ";" + comment
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}

	result := strings.TrimRight(out.String(), "\n")
	if result != "" {
		result += "\n"
	}
	return result, lexErr
}

// extractComment returns the trimmed text following the first ';' on a raw
// source line, or "" if the line has none.
func extractComment(raw string) string {
	idx := strings.IndexByte(raw, ';')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(raw[idx+1:])
}

func (f *Formatter) renderLine(toks []parser.Token) string {
	if len(toks) == 0 {
		return ""
	}

	var b strings.Builder
	start := 0
	if toks[0].Type == parser.Label {
		b.WriteString(toks[0].Literal)
		b.WriteByte(':')
		start = 1
		if len(toks) > 1 && toks[1].Type == parser.Colon {
			start = 2
		}
	}

	body := renderBody(toks[start:])
	if body == "" {
		return b.String()
	}

	pad := f.options.InstructionColumn - b.Len()
	if pad < 1 {
		pad = 1
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(body)
	return b.String()
}

// renderBody joins a line's mnemonic/directive tokens back into text: a
// space between independent terms, no space around '.', '(' or ')', and a
// space after ',' but not before it.
func renderBody(toks []parser.Token) string {
	var b strings.Builder
	needSpace := false
	for _, tok := range toks {
		switch tok.Type {
		case parser.Comma:
			b.WriteByte(',')
			needSpace = true
			continue
		case parser.Dot:
			b.WriteByte('.')
			needSpace = false
			continue
		case parser.OpenParens:
			b.WriteByte('(')
			needSpace = false
			continue
		case parser.CloseParens:
			b.WriteByte(')')
			needSpace = false
			continue
		}

		if needSpace {
			b.WriteByte(' ')
		}
		switch tok.Type {
		case parser.String:
			fmt.Fprintf(&b, "%q", tok.Literal)
		case parser.Char:
			fmt.Fprintf(&b, "'%s'", tok.Literal)
		default:
			b.WriteString(tok.Literal)
		}
		needSpace = true
	}
	return b.String()
}

// FormatString formats source with the default column options.
func FormatString(source, filename string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(source, filename)
}

// FormatStyle names one of the three preset column layouts.
type FormatStyle int

const (
	FormatDefault FormatStyle = iota
	FormatCompact
	FormatExpanded
)

// FormatStringWithStyle formats source with a named preset's column options.
func FormatStringWithStyle(source, filename string, style FormatStyle) (string, error) {
	var options FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(source, filename)
}
