package threadbound

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// taskQueueDepth bounds the number of pending closures an Object will
// buffer before Perform blocks the caller.
const taskQueueDepth = 64

// Object owns a value of type T and a single goroutine that is the only
// thing ever allowed to touch it. It is the Go analogue of the reference
// implementation's ThreadLocalObject<T>.
type Object[T any] struct {
	tasks  chan func(*T)
	done   chan struct{}
	value  *T
	logger *logrus.Entry
}

// New starts the owning goroutine, which immediately calls generator to
// construct the value, and returns a handle to it. generator runs on the
// owning goroutine, not the caller's.
func New[T any](generator func() *T) *Object[T] {
	o := &Object[T]{
		tasks: make(chan func(*T), taskQueueDepth),
		done:  make(chan struct{}),
		logger: logrus.WithFields(logrus.Fields{
			"package": "threadbound",
		}),
	}

	ready := make(chan *T, 1)
	go o.run(generator, ready)
	o.value = <-ready // block until the value exists so GetSyncAssumingSameThread is safe once New returns
	return o
}

// GetSyncAssumingSameThread returns a direct reference to the inner value.
// It is only safe to call from the goroutine that New's caller designated
// as the owner (typically from inside a closure already posted via
// Perform, or before any other goroutine has started posting work). Unlike
// the reference implementation, this does not assert the calling
// goroutine's identity — Go has no portable way to check that — so misuse
// reintroduces the data race this type exists to prevent.
func (o *Object[T]) GetSyncAssumingSameThread() *T {
	return o.value
}

func (o *Object[T]) run(generator func() *T, ready chan<- *T) {
	value := generator()
	ready <- value

	for fn := range o.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.WithFields(logrus.Fields{
						"operation": "perform",
						"panic":     fmt.Sprintf("%v", r),
					}).Error("recovered panic in posted closure")
				}
			}()
			fn(value)
		}()
	}

	close(o.done)
}

// Perform posts a closure to the owning goroutine. It is invoked with an
// exclusive reference to the inner value once prior posted work completes.
// Perform does not block for the closure to run; use a response channel
// inside fn to synchronize on a result.
func (o *Object[T]) Perform(fn func(*T)) {
	o.tasks <- fn
}

// Close posts a teardown closure and stops accepting further work. It does
// not wait for the teardown closure to run; callers that need to observe
// teardown completion should synchronize via Wait.
func (o *Object[T]) Close(teardown func(*T)) {
	if teardown != nil {
		o.tasks <- teardown
	}
	close(o.tasks)
}

// Wait blocks until the owning goroutine has drained all posted work and
// exited, which happens once Close has been called.
func (o *Object[T]) Wait() {
	<-o.done
}
