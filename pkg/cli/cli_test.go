package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFlagsNoArgsFallsBackToShell(t *testing.T) {
	_, _, haveFile, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags(nil) returned error: %v", err)
	}
	if haveFile {
		t.Fatalf("expected haveFile=false with no arguments")
	}
}

func TestParseFlagsFileWithoutInputIsAnError(t *testing.T) {
	_, _, _, err := parseFlags([]string{"-f", "rule.rl"})
	if err == nil {
		t.Fatalf("expected an error for -f without -i")
	}
}

func TestParseFlagsLongAndShortForms(t *testing.T) {
	filePath, input, haveFile, err := parseFlags([]string{"--file", "rule.rl", "--input", "{}"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}
	if !haveFile || filePath != "rule.rl" || input != "{}" {
		t.Fatalf("parseFlags = (%q, %q, %v), want (rule.rl, {}, true)", filePath, input, haveFile)
	}

	filePath, input, haveFile, err = parseFlags([]string{"-i", "{}", "-f", "rule.rl"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}
	if !haveFile || filePath != "rule.rl" || input != "{}" {
		t.Fatalf("parseFlags = (%q, %q, %v), want (rule.rl, {}, true)", filePath, input, haveFile)
	}
}

func TestRunFileAppliesRuleAndReturnsZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "threshold.rl")
	src := "func apply(n: sint32) sint32:\n    return n * 2\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errOut strings.Builder
	code := Run([]string{"-f", path, "-i", "21"}, strings.NewReader(""), &out, &errOut)
	if code != 0 {
		t.Fatalf("Run returned exit code %d, stderr: %s", code, errOut.String())
	}
	if strings.TrimSpace(out.String()) != "42" {
		t.Fatalf("Run printed %q, want 42", out.String())
	}
}

func TestRunFileMissingFileReturnsNonzero(t *testing.T) {
	var out, errOut strings.Builder
	code := Run([]string{"-f", "/no/such/file.rl", "-i", "1"}, strings.NewReader(""), &out, &errOut)
	if code == 0 {
		t.Fatalf("expected a nonzero exit code for a missing file")
	}
	if errOut.Len() == 0 {
		t.Fatalf("expected an error message on stderr")
	}
}

func TestRunShellFallbackWhenNoFileGiven(t *testing.T) {
	var out, errOut strings.Builder
	code := Run(nil, strings.NewReader("let sint32 x = 1\n"), &out, &errOut)
	if code != 0 {
		t.Fatalf("Run returned exit code %d, stderr: %s", code, errOut.String())
	}
	if out.Len() == 0 {
		t.Fatalf("expected the shell to print a stack-size line")
	}
}
