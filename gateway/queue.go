/*
queue.go - Serialized event queue

PURPOSE:
  Buffers inbound events and feeds them to a single consumer in arrival
  order. The webhook handler must return fast, so enqueueing never blocks on
  the router; the consumer goroutine drains the backlog one event at a time,
  which is what keeps conversation state transitions race-free without any
  locking in the router itself.

SEE ALSO:
  - server.go: Producer (webhook handler)
  - bot/router.go: Consumer (HandleEvent)
*/
package gateway

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/vinoteca/stockbot/bot"
)

// Handler consumes one event. bot.Router satisfies it.
type Handler interface {
	HandleEvent(ctx context.Context, ev bot.Event) error
}

// Queue is an unbounded FIFO with a single consumer.
type Queue struct {
	mu       sync.Mutex
	backlog  []bot.Event
	notify   chan struct{}
	closed   atomic.Bool
	enqueued atomic.Uint64
	handled  atomic.Uint64

	log *logrus.Logger
}

// NewQueue creates an empty queue.
func NewQueue(log *logrus.Logger) *Queue {
	if log == nil {
		log = logrus.New()
	}
	return &Queue{
		notify: make(chan struct{}, 1),
		log:    log,
	}
}

// Enqueue appends an event. Returns false once intake is closed.
func (q *Queue) Enqueue(ev bot.Event) bool {
	if q.closed.Load() {
		return false
	}
	q.mu.Lock()
	q.backlog = append(q.backlog, ev)
	q.mu.Unlock()
	q.enqueued.Add(1)

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Run drains the queue into h until ctx is cancelled. Handler errors are
// logged and the loop continues; one bad event must not stall the chat.
func (q *Queue) Run(ctx context.Context, h Handler) {
	for {
		ev, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.notify:
				continue
			}
		}

		if err := h.HandleEvent(ctx, ev); err != nil {
			q.log.WithError(err).WithField("user", ev.UserID).Error("event handling failed")
		}
		q.handled.Add(1)
	}
}

func (q *Queue) pop() (bot.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.backlog) == 0 {
		return bot.Event{}, false
	}
	ev := q.backlog[0]
	q.backlog = q.backlog[1:]
	return ev, true
}

// CloseIntake rejects future enqueues. Already-buffered events still drain.
func (q *Queue) CloseIntake() { q.closed.Store(true) }

// Depth returns the number of buffered events.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Counts returns total enqueued and handled events.
func (q *Queue) Counts() (enqueued, handled uint64) {
	return q.enqueued.Load(), q.handled.Load()
}
