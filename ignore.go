package chokidar

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/electric-eloquence/chokidar/pkg/filesystem"
	"github.com/pkg/errors"
)

// globPattern is a single parsed glob ignore pattern, grounded on the
// pattern model mutagen's synchronization core uses for its own ignore
// engine: a leading "!" negates, a trailing "/" restricts the pattern to
// directories, and a pattern with no slash in it also matches against a
// path's base name rather than requiring a full relative-path match.
type globPattern struct {
	negated       bool
	directoryOnly bool
	matchLeaf     bool
	pattern       string
}

func newGlobPattern(pattern string) (*globPattern, error) {
	if pattern == "" || pattern == "!" {
		return nil, errors.New("empty pattern")
	}

	negated := false
	if pattern[0] == '!' {
		negated = true
		pattern = pattern[1:]
	}

	if pattern == "" {
		return nil, errors.New("empty pattern")
	}

	directoryOnly := false
	if pattern[len(pattern)-1] == '/' {
		directoryOnly = true
		pattern = pattern[:len(pattern)-1]
	}

	if pattern == "" {
		return nil, errors.New("root directory pattern")
	}

	containsSlash := strings.IndexByte(pattern, '/') >= 0

	if _, err := doublestar.Match(pattern, "a"); err != nil {
		return nil, errors.Wrap(err, "unable to validate pattern")
	}

	return &globPattern{
		negated:       negated,
		directoryOnly: directoryOnly,
		matchLeaf:     !containsSlash,
		pattern:       pattern,
	}, nil
}

// matches reports whether the pattern applies to path and, if so, whether
// that application negates a prior ignore decision.
func (p *globPattern) matches(path string, isDir bool) (matched, negated bool) {
	if p.directoryOnly && !isDir {
		return false, false
	}

	normalized := filepath.ToSlash(path)
	if ok, _ := doublestar.Match(p.pattern, normalized); ok {
		return true, p.negated
	}

	if p.matchLeaf && normalized != "" {
		if ok, _ := doublestar.Match(p.pattern, filepath.Base(normalized)); ok {
			return true, p.negated
		}
	}

	return false, false
}

// globIgnorer evaluates a path against an ordered list of glob patterns,
// later patterns taking precedence over earlier ones, matching the
// ordered-override behavior of .gitignore-style files.
type globIgnorer struct {
	patterns []*globPattern
}

// NewGlobIgnorer compiles a list of .gitignore-style glob patterns into an
// IgnoredFunc suitable for Options.Ignored. Patterns are matched against
// the path exactly as the predicate receives it (the Watcher passes
// absolute paths) using github.com/bmatcuk/doublestar/v4, giving "**"
// recursive-wildcard support that filepath.Match alone doesn't provide; a
// pattern without a slash is also matched against the path's base name.
func NewGlobIgnorer(patterns []string) (IgnoredFunc, error) {
	compiled := make([]*globPattern, 0, len(patterns))
	for _, raw := range patterns {
		pattern, err := newGlobPattern(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse pattern %q", raw)
		}
		compiled = append(compiled, pattern)
	}

	ignorer := &globIgnorer{patterns: compiled}
	return ignorer.ignored, nil
}

func (g *globIgnorer) ignored(path string, stats *filesystem.Snapshot) bool {
	isDir := stats != nil && stats.IsDir
	ignored := false
	for _, pattern := range g.patterns {
		if matched, negated := pattern.matches(path, isDir); matched {
			ignored = !negated
		}
	}
	return ignored
}
