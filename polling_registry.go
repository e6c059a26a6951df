package chokidar

import "time"

// pollingListener is one logical subscriber sharing a polling handle.
type pollingListener struct {
	// raw fires on every poll tick once a baseline has been established,
	// independent of whether the stat comparison triggered callback (spec
	// §4.2: raw is always emitted with kind="change").
	raw         func(kind nativeKind, relativeEntry string)
	callback    func(kind nativeKind, relativeEntry string)
	errCallback func(error)
}

// pollingWatch is the registry's bookkeeping for a single physical polling
// handle, recording the interval it was opened with so a later subscriber
// requesting a shorter interval can trigger an upgrade.
type pollingWatch struct {
	handle    *pollingPrimitiveHandle
	interval  time.Duration
	listeners map[int]*pollingListener
	nextID    int
}

// pollingRegistry implements PollingWatchRegistry (spec §4.2): like
// nativeRegistry, it multiplexes subscribers onto one physical handle per
// path, but it additionally supports upgrade semantics — if a new
// subscriber requests a shorter interval than the handle currently runs
// at, the registry releases the existing handle and reopens one at the
// shorter interval, carrying every existing listener over to it. The new
// handle's first tick only records a baseline, so a change made between
// the old handle's last tick and that baseline is not reported.
type pollingRegistry struct {
	watches map[string]*pollingWatch
	post    func(func())
}

func newPollingRegistry(post func(func())) *pollingRegistry {
	return &pollingRegistry{
		watches: make(map[string]*pollingWatch),
		post:    post,
	}
}

// subscribe attaches a new logical listener to path at the given interval.
// raw fires unconditionally on every tick; callback fires only when the
// stat comparison says something actually changed.
func (r *pollingRegistry) subscribe(path string, interval time.Duration, raw func(kind nativeKind, relativeEntry string), callback func(kind nativeKind, relativeEntry string), errCallback func(error)) func() {
	watch, ok := r.watches[path]
	if !ok {
		watch = &pollingWatch{listeners: make(map[int]*pollingListener)}
		r.watches[path] = watch
		r.open(path, watch, interval)
	} else if interval < watch.interval {
		r.upgrade(path, watch, interval)
	}

	id := watch.nextID
	watch.nextID++
	watch.listeners[id] = &pollingListener{raw: raw, callback: callback, errCallback: errCallback}

	unsubscribed := false
	return func() {
		if unsubscribed {
			return
		}
		unsubscribed = true
		delete(watch.listeners, id)
		if len(watch.listeners) != 0 {
			return
		}
		delete(r.watches, path)
		watch.handle.close()
	}
}

// open starts a new physical handle for watch at interval, broadcasting
// every notification to whatever listeners are currently attached.
func (r *pollingRegistry) open(path string, watch *pollingWatch, interval time.Duration) {
	watch.interval = interval
	watch.handle = openPollingPrimitive(path, interval,
		func(kind nativeKind, relativeEntry string) {
			r.post(func() { r.broadcastRaw(path, kind, relativeEntry) })
		},
		func(kind nativeKind, relativeEntry string) {
			r.post(func() { r.broadcast(path, kind, relativeEntry) })
		},
		func(err error) {
			r.post(func() { r.broadcastError(path, err) })
		},
	)
}

// upgrade releases watch's current handle and reopens it at a shorter
// interval, preserving every existing listener.
func (r *pollingRegistry) upgrade(path string, watch *pollingWatch, interval time.Duration) {
	watch.handle.close()
	r.open(path, watch, interval)
}

// broadcastRaw delivers an unconditional per-tick notification to every
// current listener of path.
func (r *pollingRegistry) broadcastRaw(path string, kind nativeKind, relativeEntry string) {
	watch, ok := r.watches[path]
	if !ok {
		return
	}
	for _, listener := range watch.listeners {
		listener.raw(kind, relativeEntry)
	}
}

func (r *pollingRegistry) broadcast(path string, kind nativeKind, relativeEntry string) {
	watch, ok := r.watches[path]
	if !ok {
		return
	}
	for _, listener := range watch.listeners {
		listener.callback(kind, relativeEntry)
	}
}

func (r *pollingRegistry) broadcastError(path string, err error) {
	watch, ok := r.watches[path]
	if !ok {
		return
	}
	for _, listener := range watch.listeners {
		listener.errCallback(err)
	}
}

// closeAll tears down every outstanding polling handle, used when a
// Watcher is closed.
func (r *pollingRegistry) closeAll() {
	for path, watch := range r.watches {
		watch.handle.close()
		delete(r.watches, path)
	}
}
