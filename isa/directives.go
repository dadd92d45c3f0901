package isa

// Directive names one of the assembler pseudo-ops recognized outside the
// instruction table.
type Directive uint8

const (
	DirData Directive = iota
	DirText
	DirCode
	DirOrg
	DirSpace
	DirAsciiz
	DirAscii
	DirAlign
	DirWord
	DirByte
	DirWord32
	DirWord16
	DirDouble
)

var directiveNames = map[Directive]string{
	DirData:   "data",
	DirText:   "text",
	DirCode:   "code",
	DirOrg:    "org",
	DirSpace:  "space",
	DirAsciiz: "asciiz",
	DirAscii:  "ascii",
	DirAlign:  "align",
	DirWord:   "word",
	DirByte:   "byte",
	DirWord32: "word32",
	DirWord16: "word16",
	DirDouble: "double",
}

var directiveByName = buildDirectiveIndex()

func buildDirectiveIndex() map[string]Directive {
	m := make(map[string]Directive, len(directiveNames))
	for d, name := range directiveNames {
		m[name] = d
	}
	return m
}

// LookupDirective resolves the text following a '.' to a Directive.
func LookupDirective(name string) (Directive, bool) {
	d, ok := directiveByName[name]
	return d, ok
}

// String renders d as it appears in source, without the leading dot.
func (d Directive) String() string { return directiveNames[d] }

// ListWidth returns the per-element byte width for the comma-separated list
// directives (.byte/.word16/.word32/.word/.double), and whether d is one of
// them at all.
func (d Directive) ListWidth() (width int, ok bool) {
	switch d {
	case DirByte:
		return 1, true
	case DirWord16:
		return 2, true
	case DirWord32:
		return 4, true
	case DirWord:
		return 8, true
	case DirDouble:
		return 8, true
	default:
		return 0, false
	}
}
