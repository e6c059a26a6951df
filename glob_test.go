package chokidar

import "testing"

func TestIsGlobPattern(t *testing.T) {
	cases := []struct {
		path string
		glob bool
	}{
		{"/a/b/c.go", false},
		{"/a/b/*.go", true},
		{"/a/**/*.go", true},
		{"/a/b[0-9]", true},
		{"/a/{b,c}", true},
	}
	for _, c := range cases {
		if got := isGlobPattern(c.path); got != c.glob {
			t.Errorf("isGlobPattern(%q) = %v, want %v", c.path, got, c.glob)
		}
	}
}

func TestSplitGlobBase(t *testing.T) {
	base, pattern := splitGlobBase("/home/user/project/**/*.go")
	if base != "/home/user/project" {
		t.Errorf("base = %q, want /home/user/project", base)
	}
	if pattern != "**/*.go" {
		t.Errorf("pattern = %q, want **/*.go", pattern)
	}
}

func TestSplitGlobBaseAtRoot(t *testing.T) {
	base, pattern := splitGlobBase("/*.go")
	if base != "/" {
		t.Errorf("base = %q, want /", base)
	}
	if pattern != "*.go" {
		t.Errorf("pattern = %q, want *.go", pattern)
	}
}

func TestBuildGlobRootLiteralPath(t *testing.T) {
	root, glob := buildGlobRoot("/a/b/c")
	if root != "/a/b/c" {
		t.Errorf("root = %q, want /a/b/c", root)
	}
	if glob != nil {
		t.Error("expected a nil glob filter for a literal path")
	}
}

func TestGlobFilterMatch(t *testing.T) {
	_, glob := buildGlobRoot("/repo/**/*.go")
	if glob == nil {
		t.Fatal("expected a non-nil glob filter for a glob path")
	}

	if !glob.match("/repo/pkg/sub/file.go", false) {
		t.Error("expected a nested .go file to match **/*.go")
	}
	if glob.match("/repo/pkg/sub/file.txt", false) {
		t.Error("expected a non-.go file to not match")
	}
}
