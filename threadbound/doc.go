// Package threadbound provides a scoped-lifetime handle that pins the
// construction, every method invocation, and the destruction of an inner
// value to one designated goroutine.
//
// It replaces the C++ convention of implicit thread affinity (a value only
// ever touched from one rtc::Thread) with an explicit handle: Object[T]
// owns a single goroutine draining a buffered channel of closures. Callers
// post work to the wrapped value and the owning goroutine runs it to
// completion before the next posted closure starts; the one direct
// reference handed out is GetSyncAssumingSameThread's.
package threadbound
