// Package frame schedules per-frame callbacks, one shot at a time, in the
// manner of a display refresh callback.
package frame

import (
	"sync"
	"time"
)

// ID identifies a pending callback. The zero ID is never issued.
type ID uint64

// Callback receives the time of the frame it runs in.
type Callback func(now time.Time)

// Scheduler runs each requested callback once on a future frame.
type Scheduler interface {
	Request(cb Callback) ID
	Cancel(id ID)
}

type pending struct {
	id ID
	cb Callback
}

// Queue collects callbacks until its owner calls Run. It suits loops that
// already own a thread, such as the SDL main loop or a test.
type Queue struct {
	mu      sync.Mutex
	nextID  ID
	pending []pending
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Request queues cb for the next Run.
func (q *Queue) Request(cb Callback) ID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.pending = append(q.pending, pending{id: q.nextID, cb: cb})
	return q.nextID
}

// Cancel drops a pending callback. Unknown or already run IDs are ignored.
func (q *Queue) Cancel(id ID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.pending {
		if p.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run invokes every callback pending at the time of the call and returns how
// many ran. Callbacks requested while running wait for the next Run.
func (q *Queue) Run(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, p := range batch {
		p.cb(now)
	}
	return len(batch)
}

// Ticker drives a Queue from its own goroutine at a fixed rate. It is used
// where nothing else owns a frame loop, such as the preview server.
type Ticker struct {
	*Queue
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewTicker starts a ticker running at fps frames per second.
// Values below 1 default to 60.
func NewTicker(fps int) *Ticker {
	if fps < 1 {
		fps = 60
	}
	t := &Ticker{
		Queue:    NewQueue(),
		interval: time.Second / time.Duration(fps),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go t.loop()
	return t
}

// Interval returns the time between frames.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

func (t *Ticker) loop() {
	defer close(t.done)
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-t.stop:
			return
		case now := <-tk.C:
			t.Run(now)
		}
	}
}

// Close stops the ticker and waits for an in-flight frame to finish.
// Pending callbacks are discarded. Close is safe to call more than once.
func (t *Ticker) Close() {
	t.once.Do(func() {
		close(t.stop)
		<-t.done
		t.mu.Lock()
		t.pending = nil
		t.mu.Unlock()
	})
}
