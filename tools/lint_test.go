package tools

import (
	"strings"
	"testing"
)

func TestLintUndefinedLabel(t *testing.T) {
	source := ".text\n\tdaddi r1, r0, 10\n\tbeq r1, r0, nowhere"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	found := false
	for _, issue := range issues {
		if issue.Code == "UNDEF_LABEL" && strings.Contains(issue.Message, "nowhere") {
			found = true
			if issue.Level != LintError {
				t.Errorf("expected error level, got %v", issue.Level)
			}
		}
	}
	if !found {
		t.Error("expected an undefined label error")
	}
}

func TestLintDuplicateLabel(t *testing.T) {
	source := ".text\nloop:\tdaddi r1, r0, 10\nloop:\tdaddi r1, r1, 1"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	found := false
	for _, issue := range issues {
		if issue.Code == "DUPLICATE_LABEL" {
			found = true
		}
	}
	if !found {
		t.Error("expected a duplicate label error")
	}
}

func TestLintWrongRegisterBank(t *testing.T) {
	source := ".text\n\tadd.d f0, f1, r2"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	found := false
	for _, issue := range issues {
		if issue.Code == "WRONG_BANK" {
			found = true
		}
	}
	if !found {
		t.Error("expected a wrong-bank register error")
	}
}

func TestLintDirectiveBeforeSection(t *testing.T) {
	source := "label:\tdaddi r1, r0, 10\n.text\n\thalt"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	found := false
	for _, issue := range issues {
		if issue.Code == "MISSING_SECTION" {
			found = true
		}
	}
	if !found {
		t.Error("expected a missing-section error for a label defined before any section directive")
	}
}

func TestLintUnusedLabel(t *testing.T) {
	source := ".text\n_start:\tdaddi r1, r0, 10\n\thalt\nunused:\tdaddi r2, r0, 20"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	found := false
	for _, issue := range issues {
		if issue.Code == "UNUSED_LABEL" && strings.Contains(issue.Message, "unused") {
			found = true
			if issue.Level != LintWarning {
				t.Errorf("expected warning level, got %v", issue.Level)
			}
		}
	}
	if !found {
		t.Error("expected an unused label warning")
	}
}

func TestLintUnusedLabelDisabled(t *testing.T) {
	source := ".text\n_start:\tdaddi r1, r0, 10\n\thalt\nunused:\tdaddi r2, r0, 20"

	issues := NewLinter(LintOptions{CheckUnused: false}).Lint(source, "test.s")

	for _, issue := range issues {
		if issue.Code == "UNUSED_LABEL" {
			t.Error("did not expect an unused label warning with CheckUnused disabled")
		}
	}
}

func TestLintValidProgram(t *testing.T) {
	source := ".text\n_start:\tdaddi r1, r0, 10\n\tbeq r1, r0, _start\n\thalt"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	for _, issue := range issues {
		if issue.Level == LintError {
			t.Errorf("unexpected error in valid program: %v", issue.Message)
		}
	}
}

func TestLintUnknownMnemonic(t *testing.T) {
	source := ".text\n\tfrobnicate r1, r0"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	found := false
	for _, issue := range issues {
		if issue.Code == "UNKNOWN_MNEMONIC" {
			found = true
		}
	}
	if !found {
		t.Error("expected an unknown mnemonic error")
	}
}

func TestLintIssuesSortedByLine(t *testing.T) {
	source := ".text\n\tbeq r1, r0, missing1\n\tbeq r1, r0, missing2"

	issues := NewLinter(DefaultLintOptions()).Lint(source, "test.s")

	if len(issues) < 2 {
		t.Fatalf("expected multiple issues, got %d", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i].Line < issues[i-1].Line {
			t.Error("issues not sorted by line number")
		}
	}
}

func TestLintLevelString(t *testing.T) {
	if LintError.String() != "error" {
		t.Errorf("LintError.String() = %q, want error", LintError.String())
	}
	if LintWarning.String() != "warning" {
		t.Errorf("LintWarning.String() = %q, want warning", LintWarning.String())
	}
}
