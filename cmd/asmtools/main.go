// Command asmtools bundles the assembler's developer conveniences: symbol
// cross-referencing, source reformatting, and structural linting.
package main

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/mips-toolchain/parser"
	"github.com/lookbusy1344/mips-toolchain/tools"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		os.Exit(1)
	}

	cmd, path := os.Args[1], os.Args[2]
	source, err := os.ReadFile(path) // #nosec G304 -- user-specified source file
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("reading %s: %w", path, err))
		os.Exit(1)
	}

	var runErr error
	switch cmd {
	case "xref":
		runErr = runXref(path, string(source))
	case "fmt":
		runErr = runFmt(path, string(source))
	case "lint":
		runErr = runLint(path, string(source))
	default:
		printHelp()
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func runXref(path, source string) error {
	prog, err := parser.Assemble(path, source)
	if err != nil {
		return err
	}
	fmt.Print(tools.Report(tools.CrossReference(prog)))
	return nil
}

func runFmt(path, source string) error {
	result, err := tools.FormatString(source, path)
	if err != nil {
		return err
	}
	fmt.Print(result)
	return nil
}

func runLint(path, source string) error {
	issues := tools.NewLinter(tools.DefaultLintOptions()).Lint(source, path)
	errorCount := 0
	for _, issue := range issues {
		fmt.Printf("%s:%d:%d: %s: %s [%s]\n", path, issue.Line, issue.Column, issue.Level, issue.Message, issue.Code)
		if issue.Level == tools.LintError {
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d lint error(s) found", errorCount)
	}
	return nil
}

func printHelp() {
	fmt.Println(`asmtools - symbol cross-reference, formatting, and linting

Usage:
  asmtools xref <file>.s   Print every label's address and its referencing instructions
  asmtools fmt  <file>.s   Re-render the file with consistent column alignment
  asmtools lint <file>.s   Report structurally detectable mistakes`)
}
