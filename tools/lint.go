package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/parser"
)

// LintLevel classifies how serious an issue is.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintWarning {
		return "warning"
	}
	return "error"
}

// LintIssue is one diagnostic, structurally detectable without an encode
// pass. Line and Column are 1-based source positions; a warning derived
// from the label table rather than a specific token (UNUSED_LABEL) leaves
// them zero, since SymbolTable records a label's address but not the line
// it was defined on.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Column  int
	Message string
	Code    string
}

// LintOptions controls which soft (non-parser-enforced) checks run.
type LintOptions struct {
	// CheckUnused reports labels that are defined but never addressed by
	// any instruction.
	CheckUnused bool
}

// DefaultLintOptions enables every soft check.
func DefaultLintOptions() LintOptions {
	return LintOptions{CheckUnused: true}
}

// Linter runs the lex/parse front end over a source file and reports every
// issue it can find structurally, pre-encode.
type Linter struct {
	options LintOptions
}

// NewLinter constructs a Linter with the given options.
func NewLinter(options LintOptions) *Linter {
	return &Linter{options: options}
}

// Lint assembles source and returns every issue found. Most of the checks
// this tool is asked for — undefined labels, duplicate labels, wrong
// register bank, directives before any section is chosen — are already
// hard errors the parser itself raises while resolving a program; Lint
// reclassifies the parser's own ErrorList rather than re-deriving them.
// When source assembles cleanly, the remaining soft checks (currently just
// unused labels) run against the finished Program.
func (lt *Linter) Lint(source, filename string) []*LintIssue {
	prog, err := parser.Assemble(filename, source)
	if err != nil {
		return classifyErrors(err)
	}

	var issues []*LintIssue
	if lt.options.CheckUnused {
		for _, label := range Unreferenced(CrossReference(prog)) {
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Message: fmt.Sprintf("label %q (0x%08X) is never referenced", label.Name, label.Address),
				Code:    "UNUSED_LABEL",
			})
		}
	}
	return issues
}

func classifyErrors(err error) []*LintIssue {
	list, ok := err.(*parser.ErrorList)
	if !ok {
		return []*LintIssue{{Level: LintError, Message: err.Error(), Code: "PARSE_ERROR"}}
	}

	issues := make([]*LintIssue, 0, len(list.Errors))
	for _, e := range list.Errors {
		issues = append(issues, &LintIssue{
			Level:   LintError,
			Line:    e.Pos.Line + 1,
			Column:  e.Pos.Column + 1,
			Message: e.Message,
			Code:    classifyMessage(e.Message),
		})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

func classifyMessage(msg string) string {
	switch {
	case strings.Contains(msg, "duplicate label"):
		return "DUPLICATE_LABEL"
	case strings.Contains(msg, "undefined label"):
		return "UNDEF_LABEL"
	case strings.Contains(msg, "wrong bank"):
		return "WRONG_BANK"
	case strings.Contains(msg, "before any section directive"), strings.Contains(msg, "expected a section directive"):
		return "MISSING_SECTION"
	case strings.Contains(msg, "unknown mnemonic"):
		return "UNKNOWN_MNEMONIC"
	case strings.Contains(msg, "unknown directive"):
		return "UNKNOWN_DIRECTIVE"
	default:
		return "PARSE_ERROR"
	}
}
