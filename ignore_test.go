package chokidar

import (
	"testing"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

func dirSnapshot() *filesystem.Snapshot {
	return &filesystem.Snapshot{IsDir: true}
}

func fileSnapshot() *filesystem.Snapshot {
	return &filesystem.Snapshot{}
}

func TestGlobIgnorerBasicMatch(t *testing.T) {
	ignored, err := NewGlobIgnorer([]string{"*.log"})
	if err != nil {
		t.Fatalf("unable to compile ignorer: %v", err)
	}

	if !ignored("/project/debug.log", fileSnapshot()) {
		t.Fatal("expected debug.log to be ignored")
	}
	if ignored("/project/main.go", fileSnapshot()) {
		t.Fatal("expected main.go to not be ignored")
	}
}

func TestGlobIgnorerDirectoryOnlyPattern(t *testing.T) {
	ignored, err := NewGlobIgnorer([]string{"node_modules/"})
	if err != nil {
		t.Fatalf("unable to compile ignorer: %v", err)
	}

	if !ignored("/project/node_modules", dirSnapshot()) {
		t.Fatal("expected node_modules directory to be ignored")
	}
	if ignored("/project/node_modules", fileSnapshot()) {
		t.Fatal("a directory-only pattern should not match a non-directory entry")
	}
}

func TestGlobIgnorerNegationOverridesEarlierIgnore(t *testing.T) {
	ignored, err := NewGlobIgnorer([]string{"*.log", "!important.log"})
	if err != nil {
		t.Fatalf("unable to compile ignorer: %v", err)
	}

	if ignored("/project/important.log", fileSnapshot()) {
		t.Fatal("expected negation pattern to un-ignore important.log")
	}
	if !ignored("/project/other.log", fileSnapshot()) {
		t.Fatal("expected other.log to remain ignored")
	}
}

func TestGlobIgnorerRecursiveWildcard(t *testing.T) {
	ignored, err := NewGlobIgnorer([]string{"**/*.tmp"})
	if err != nil {
		t.Fatalf("unable to compile ignorer: %v", err)
	}

	if !ignored("/a/b/c/file.tmp", fileSnapshot()) {
		t.Fatal("expected a deeply nested .tmp file to match a ** pattern")
	}
}

func TestGlobIgnorerRejectsEmptyPattern(t *testing.T) {
	if _, err := NewGlobIgnorer([]string{""}); err == nil {
		t.Fatal("expected an empty pattern to be rejected")
	}
}
