package chokidar

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestPollingPrimitiveEmitsRawOnEveryTickWithoutChange verifies spec §4.2:
// raw must be emitted on every poll tick once a baseline has been
// established, independent of whether the file's content actually changed.
func TestPollingPrimitiveEmitsRawOnEveryTickWithoutChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("unable to create file: %v", err)
	}

	rawCount := make(chan struct{}, 64)
	changed := make(chan struct{}, 64)

	handle := openPollingPrimitive(path, 5*time.Millisecond,
		func(nativeKind, string) { rawCount <- struct{}{} },
		func(nativeKind, string) { changed <- struct{}{} },
		func(error) {},
	)
	defer handle.close()

	deadline := time.After(500 * time.Millisecond)
	raws := 0
	for raws < 3 {
		select {
		case <-rawCount:
			raws++
		case <-changed:
			t.Fatal("did not expect a processed-change callback; the file was never modified")
		case <-deadline:
			t.Fatalf("timed out waiting for raw ticks; only saw %d", raws)
		}
	}
}

// TestPollingPrimitiveProcessedCallbackFiresOnChange verifies that the
// processed callback still fires when the file's content actually changes,
// alongside (not instead of) the unconditional raw signal.
func TestPollingPrimitiveProcessedCallbackFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("unable to create file: %v", err)
	}

	changed := make(chan struct{}, 64)

	handle := openPollingPrimitive(path, 5*time.Millisecond,
		func(nativeKind, string) {},
		func(nativeKind, string) { changed <- struct{}{} },
		func(error) {},
	)
	defer handle.close()

	// Give the primitive a chance to establish its baseline stat before
	// rewriting the file, so the rewrite is observed as a genuine change.
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2 is longer"), 0o644); err != nil {
		t.Fatalf("unable to rewrite file: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the processed callback to fire on a real change")
	}
}
