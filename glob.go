package chokidar

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// globMagicChars are the doublestar metacharacters that mark a path as a
// pattern rather than a literal filesystem entry.
const globMagicChars = "*?[{"

// isGlobPattern reports whether path contains any doublestar metacharacter,
// matching spec §4.7's "hasGlob" classification performed when a path is
// first handed to AddDispatcher.
func isGlobPattern(path string) bool {
	return strings.ContainsAny(path, globMagicChars)
}

// splitGlobBase divides an absolute glob pattern into its longest
// non-magic leading directory (the actual directory that gets watched) and
// the remaining slash-separated pattern, matched relative to that
// directory. This is how chokidar itself resolves a glob root: "/a/b/**/*.go"
// watches "/a/b" and matches descendants against "**/*.go".
func splitGlobBase(absPattern string) (baseDir, relPattern string) {
	volume := filepath.VolumeName(absPattern)
	rest := filepath.ToSlash(absPattern[len(volume):])
	parts := strings.Split(rest, "/")

	magicAt := -1
	for i, part := range parts {
		if strings.ContainsAny(part, globMagicChars) {
			magicAt = i
			break
		}
	}
	if magicAt == -1 {
		return absPattern, ""
	}

	base := strings.Join(parts[:magicAt], "/")
	if base == "" {
		base = "/"
	}
	baseDir = filepath.FromSlash(volume + base)
	relPattern = strings.Join(parts[magicAt:], "/")
	return baseDir, relPattern
}

// globFilter implements the filterPath/filterDir collaborators spec §6
// refers to: it decides whether a path beneath a glob's base directory
// satisfies the glob the user supplied to Add.
type globFilter struct {
	baseDir string
	pattern string
}

// match reports whether path (an absolute path beneath g.baseDir) satisfies
// the glob. Directories are matched the same way as files: a directory that
// doesn't itself match the pattern is still traversed by the caller (so
// deeper matches beneath it are found), but won't itself produce an addDir
// event unless it matches.
func (g *globFilter) match(path string, _ bool) bool {
	rel, err := filepath.Rel(g.baseDir, path)
	if err != nil {
		return false
	}
	matched, err := doublestar.Match(g.pattern, filepath.ToSlash(rel))
	if err != nil {
		return false
	}
	return matched
}

// buildGlobRoot examines an absolute path supplied to Add/New and, if it's a
// glob pattern, resolves it to the directory that should actually be
// watched plus the filter descendants must satisfy. For a literal (non-glob)
// path, it returns the path unchanged and a nil filter.
func buildGlobRoot(absPath string) (root string, glob *globFilter) {
	if !isGlobPattern(absPath) {
		return absPath, nil
	}
	baseDir, pattern := splitGlobBase(absPath)
	return baseDir, &globFilter{baseDir: baseDir, pattern: pattern}
}
