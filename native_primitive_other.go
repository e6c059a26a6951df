//go:build !windows

package chokidar

// openNativePrimitiveWithRecovery opens a native handle directly. Outside
// of Windows no access-denied probe is applied: every error fsnotify
// reports reaches errCallback unfiltered.
func openNativePrimitiveWithRecovery(path string, callback func(kind nativeKind, relativeEntry string), errCallback func(error)) (*nativePrimitiveHandle, error) {
	return openNativePrimitive(path, callback, errCallback)
}
