package chokidar

import (
	"os"
	"path/filepath"
	"testing"
)

// synchronousPost runs fn immediately, standing in for Watcher.postOrDrop
// so these tests can drive nativeRegistry's broadcast logic directly
// without a real event loop goroutine.
func synchronousPost(fn func()) { fn() }

// TestNativeRegistryRenameCompensationRemovesVanishedDirectory verifies
// spec §8 scenario S4: a rename notification on a watched directory whose
// path no longer exists on disk must trigger removal directly, rather than
// waiting on a self-notification that the OS may never deliver.
func TestNativeRegistryRenameCompensationRemovesVanishedDirectory(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "d")
	if err := os.Mkdir(watched, 0o755); err != nil {
		t.Fatalf("unable to create directory: %v", err)
	}

	var removed []string
	r := newNativeRegistry(synchronousPost, func(path string) {
		removed = append(removed, path)
	})
	r.watches[watched] = &nativeWatch{isDir: true, listeners: make(map[int]*nativeListener)}

	// Rename it away before the notification is broadcast, mirroring a
	// platform that never delivers a self-notification to the renamed
	// directory's own handle.
	if err := os.Rename(watched, watched+"2"); err != nil {
		t.Fatalf("unable to rename directory: %v", err)
	}

	r.broadcast(watched, nativeKindRename, "")

	if len(removed) != 1 || removed[0] != watched {
		t.Fatalf("expected exactly one removal of %s, got %v", watched, removed)
	}
}

// TestNativeRegistryRenameCompensationSweepsNestedEntries verifies that a
// vanished directory's removal sweep also reports every other registered
// key nested beneath it that no longer exists, not just the directory
// itself.
func TestNativeRegistryRenameCompensationSweepsNestedEntries(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "d")
	child := filepath.Join(watched, "c")
	if err := os.Mkdir(watched, 0o755); err != nil {
		t.Fatalf("unable to create directory: %v", err)
	}
	if err := os.WriteFile(child, []byte("x"), 0o644); err != nil {
		t.Fatalf("unable to create child file: %v", err)
	}

	var removed []string
	r := newNativeRegistry(synchronousPost, func(path string) {
		removed = append(removed, path)
	})
	r.watches[watched] = &nativeWatch{isDir: true, listeners: make(map[int]*nativeListener)}
	r.watches[child] = &nativeWatch{listeners: make(map[int]*nativeListener)}

	if err := os.RemoveAll(watched); err != nil {
		t.Fatalf("unable to remove directory: %v", err)
	}

	r.broadcast(watched, nativeKindRename, "")

	foundParent, foundChild := false, false
	for _, path := range removed {
		if path == watched {
			foundParent = true
		}
		if path == child {
			foundChild = true
		}
	}
	if !foundParent {
		t.Fatalf("expected %s to be reported removed, got %v", watched, removed)
	}
	if !foundChild {
		t.Fatalf("expected nested entry %s to be swept and reported removed, got %v", child, removed)
	}
}

// TestNativeRegistryDescendantBroadcastReroutesToChildEntry verifies spec
// §4.1's descendant broadcast: a notification naming a specific child entry
// is delivered to that child's own registry entry, in addition to the
// parent's own listeners.
func TestNativeRegistryDescendantBroadcastReroutesToChildEntry(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "d")
	child := filepath.Join(watched, "c")
	if err := os.Mkdir(watched, 0o755); err != nil {
		t.Fatalf("unable to create directory: %v", err)
	}
	if err := os.WriteFile(child, []byte("x"), 0o644); err != nil {
		t.Fatalf("unable to create child file: %v", err)
	}

	r := newNativeRegistry(synchronousPost, func(string) {})

	var parentNotified, childNotified bool
	r.watches[watched] = &nativeWatch{
		isDir: true,
		listeners: map[int]*nativeListener{
			0: {callback: func(nativeKind, string) { parentNotified = true }, errCallback: func(error) {}},
		},
	}
	r.watches[child] = &nativeWatch{
		listeners: map[int]*nativeListener{
			0: {callback: func(nativeKind, string) { childNotified = true }, errCallback: func(error) {}},
		},
	}

	r.broadcast(watched, nativeKindChange, "c")

	if !parentNotified {
		t.Fatal("expected the parent directory's own listeners to be notified")
	}
	if !childNotified {
		t.Fatal("expected the child's own registry entry to be notified via descendant broadcast")
	}
}

// TestNativeRegistrySubscribeNonPersistentBypassesRegistry verifies spec
// §4.1's first bullet: a non-persistent subscription never appears in the
// registry's watches map, so it can't participate in broadcast/compensation.
func TestNativeRegistrySubscribeNonPersistentBypassesRegistry(t *testing.T) {
	dir := t.TempDir()

	r := newNativeRegistry(synchronousPost, func(string) {})

	unsubscribe, err := r.subscribe(dir, true, false, func(nativeKind, string) {}, func(error) {})
	if err != nil {
		t.Fatalf("unable to subscribe: %v", err)
	}
	if len(r.watches) != 0 {
		t.Fatalf("expected a non-persistent subscription to bypass the registry entirely, got %d entries", len(r.watches))
	}

	unsubscribe()
}
