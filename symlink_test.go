package chokidar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

func lstatSnapshot(t *testing.T, path string) filesystem.Snapshot {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("unable to lstat %s: %v", path, err)
	}
	return filesystem.NewSnapshot(info)
}

// TestSymlinkLeafModeEmitsAddThenChange verifies the leaf-mode protocol of
// spec §4.4: the first observation of a symlink emits add, and a later
// observation whose resolved target differs from the one last recorded
// emits change.
func TestSymlinkLeafModeEmitsAddThenChange(t *testing.T) {
	dir := t.TempDir()
	targetA := filepath.Join(dir, "a.txt")
	targetB := filepath.Join(dir, "b.txt")
	for _, p := range []string{targetA, targetB} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("unable to create target file: %v", err)
		}
	}

	link := filepath.Join(dir, "link")
	if err := os.Symlink(targetA, link); err != nil {
		t.Fatalf("unable to create symlink: %v", err)
	}

	var events []EventType
	resolver := newSymlinkResolver(false, func(t EventType, _ string, _ filesystem.Snapshot) {
		events = append(events, t)
	})

	if handled := resolver.observe(link, lstatSnapshot(t, link)); !handled {
		t.Fatal("expected leaf-mode observe to always report handled")
	}
	if len(events) != 1 || events[0] != EventAdd {
		t.Fatalf("expected a single add event, got %v", events)
	}

	// Re-observing the same target must not emit anything further.
	resolver.observe(link, lstatSnapshot(t, link))
	if len(events) != 1 {
		t.Fatalf("expected no additional event for an unchanged target, got %v", events)
	}

	// Repoint the link and observe again: expect a change event.
	if err := os.Remove(link); err != nil {
		t.Fatalf("unable to remove symlink: %v", err)
	}
	if err := os.Symlink(targetB, link); err != nil {
		t.Fatalf("unable to recreate symlink: %v", err)
	}
	resolver.observe(link, lstatSnapshot(t, link))
	if len(events) != 2 || events[1] != EventChange {
		t.Fatalf("expected add,change, got %v", events)
	}
}

// TestSymlinkFollowModeBreaksCycles verifies that a raw filesystem symlink
// cycle (a -> b -> a) is handled, not followed, when followSymlinks=true:
// each end is reported as handled and emits exactly one add as a leaf.
func TestSymlinkFollowModeBreaksCycles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.Symlink(b, a); err != nil {
		t.Fatalf("unable to create symlink a: %v", err)
	}
	if err := os.Symlink(a, b); err != nil {
		t.Fatalf("unable to create symlink b: %v", err)
	}

	var adds int
	resolver := newSymlinkResolver(true, func(kind EventType, _ string, _ filesystem.Snapshot) {
		if kind != EventAdd {
			t.Fatalf("expected only add events for unresolvable links, got %v", kind)
		}
		adds++
	})

	// Both ends of the cycle resolve to an EvalSymlinks error (too many
	// links), so both are treated as leaves here; the real cycle-breaking
	// exercise is in TestSymlinkFollowModeSharedTarget below, which models
	// the dispatcher's recursive traversal instead of a raw filesystem
	// cycle (EvalSymlinks itself already refuses to resolve one).
	if !resolver.observe(a, lstatSnapshot(t, a)) {
		t.Fatal("expected an unresolvable cyclic symlink to be reported as handled")
	}
	if !resolver.observe(b, lstatSnapshot(t, b)) {
		t.Fatal("expected an unresolvable cyclic symlink to be reported as handled")
	}
	if adds != 2 {
		t.Fatalf("expected exactly one add per cyclic link, got %d", adds)
	}
}

// TestSymlinkFollowModeSharedTarget verifies that a second symlink resolving
// to a target already visited in follow mode is reported as handled (the
// cycle-break signal), while the first visit is reported as "continue".
func TestSymlinkFollowModeSharedTarget(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatalf("unable to create real directory: %v", err)
	}

	link1 := filepath.Join(dir, "link1")
	link2 := filepath.Join(dir, "link2")
	if err := os.Symlink(real, link1); err != nil {
		t.Fatalf("unable to create link1: %v", err)
	}
	if err := os.Symlink(real, link2); err != nil {
		t.Fatalf("unable to create link2: %v", err)
	}

	resolver := newSymlinkResolver(true, func(EventType, string, filesystem.Snapshot) {})

	if handled := resolver.observe(link1, lstatSnapshot(t, link1)); handled {
		t.Fatal("expected first visit to a follow-mode target to report continue (false)")
	}
	if handled := resolver.observe(link2, lstatSnapshot(t, link2)); !handled {
		t.Fatal("expected second visit to an already-visited target to report handled (true)")
	}
}

// TestSymlinkBrokenTreatedAsLeaf verifies that a symlink whose target
// doesn't exist (or can't be resolved) is always treated as a leaf,
// regardless of FollowSymlinks.
func TestSymlinkBrokenTreatedAsLeaf(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "broken")
	if err := os.Symlink(filepath.Join(dir, "does-not-exist"), link); err != nil {
		t.Fatalf("unable to create broken symlink: %v", err)
	}

	var emitted int
	resolver := newSymlinkResolver(true, func(EventType, string, filesystem.Snapshot) { emitted++ })

	if handled := resolver.observe(link, lstatSnapshot(t, link)); !handled {
		t.Fatal("expected a broken symlink to always be reported as handled")
	}
	if emitted != 1 {
		t.Fatalf("expected exactly one emitted event for the broken link, got %d", emitted)
	}
}
