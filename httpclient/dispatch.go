package httpclient

import "sync"

// Dispatcher runs completion work in the caller's chosen context.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// DirectDispatcher runs fn on the goroutine that finished the call.
var DirectDispatcher Dispatcher = DispatcherFunc(func(fn func()) { fn() })

const defaultQueueSize = 64

// Queue runs dispatched functions one at a time, in order, on its own
// goroutine. A function must not dispatch onto its own queue when the
// buffer is full.
type Queue struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	done   chan struct{}
}

// NewQueue starts a serial queue. size <= 0 uses a default buffer.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	q := &Queue{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for fn := range q.tasks {
		fn()
	}
}

// Dispatch enqueues fn. After Close, fn runs inline so no delivery is
// lost.
func (q *Queue) Dispatch(fn func()) {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		fn()
		return
	}
	q.tasks <- fn
	q.mu.RUnlock()
}

// Close stops accepting work and waits for queued functions to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	<-q.done
}
