package application

import (
	"strconv"
	"sync"
	"time"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/google/uuid"
)

const maxAlerts = 5

// Clock is injectable so expiry can be tested.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// AlertQueue holds the newest alerts first, capped at five. Expired alerts
// are pruned whenever the queue is read or written.
type AlertQueue struct {
	mu     sync.Mutex
	clock  Clock
	alerts []domain.Alert
}

func NewAlertQueue(clock Clock) *AlertQueue {
	if clock == nil {
		clock = RealClock{}
	}
	return &AlertQueue{clock: clock}
}

// Add prepends an alert, dropping the oldest beyond the cap.
func (q *AlertQueue) Add(kind domain.AlertKind, message string) domain.Alert {
	now := q.clock.Now()
	alert := domain.Alert{
		ID:        newAlertID(now),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(kind.TTL()),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(now)
	next := make([]domain.Alert, 0, maxAlerts)
	next = append(next, alert)
	for _, a := range q.alerts {
		if len(next) == maxAlerts {
			break
		}
		next = append(next, a)
	}
	q.alerts = next
	return alert
}

// Dismiss removes the alert with id and reports whether it was present.
func (q *AlertQueue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, a := range q.alerts {
		if a.ID == id {
			q.alerts = append(q.alerts[:i:i], q.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the live alerts, newest first.
func (q *AlertQueue) List() []domain.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(q.clock.Now())
	out := make([]domain.Alert, len(q.alerts))
	copy(out, q.alerts)
	return out
}

func (q *AlertQueue) pruneLocked(now time.Time) {
	kept := q.alerts[:0:0]
	for _, a := range q.alerts {
		if now.Before(a.ExpiresAt) {
			kept = append(kept, a)
		}
	}
	q.alerts = kept
}

// newAlertID returns a UUIDv7, which embeds the creation timestamp.
func newAlertID(now time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		return strconv.FormatInt(now.UnixNano(), 10)
	}
	return id.String()
}
