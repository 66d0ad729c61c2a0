// Package notify keeps the transient toast messages of a session.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue holds pending notifications until they are drained or expire.
type Queue struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items []Notification
}

func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, now: time.Now}
}

func (q *Queue) Push(kind Kind, message string) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		ExpiresAt: q.now().Add(q.ttl),
	}
	q.items = append(q.items, n)
	return n
}

// Drain returns the live notifications and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	live := q.liveLocked()
	q.items = nil
	return live
}

// Pending returns the live notifications without removing them.
func (q *Queue) Pending() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	live := q.liveLocked()
	q.items = live
	return append([]Notification(nil), live...)
}

func (q *Queue) liveLocked() []Notification {
	now := q.now()
	var live []Notification
	for _, n := range q.items {
		if now.Before(n.ExpiresAt) {
			live = append(live, n)
		}
	}
	return live
}
