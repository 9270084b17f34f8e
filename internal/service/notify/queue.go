// Package notify implements the single-slot badge toast queue.
//
// A toast moves Empty -> Pending -> Visible -> Dismissing -> Empty on a fixed
// schedule. A push in any phase replaces the held toast and restarts the
// schedule. Every timer is bound to the toast instance and phase it was
// scheduled for, so a superseded timer that still fires is a no-op.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/metrics"
)

// Phase is the queue's presentation state.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhasePending
	PhaseVisible
	PhaseDismissing
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhasePending:
		return "pending"
	case PhaseVisible:
		return "visible"
	case PhaseDismissing:
		return "dismissing"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is a snapshot of the queue.
type State struct {
	Phase Phase                   `json:"phase"`
	Event *domain.BadgeToastEvent `json:"event"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// timerKey identifies what a timer was scheduled for.
type timerKey struct {
	instance uuid.UUID
	phase    Phase
}

// Queue is the single-slot toast channel.
type Queue struct {
	mu    sync.Mutex
	phase Phase
	event *domain.BadgeToastEvent
	timer Timer
	armed timerKey

	clock  Clock
	timing Timing
	pub    publisher
	log    *slog.Logger
}

// NewQueue creates an empty queue.
func NewQueue(log *slog.Logger, clock Clock, timing Timing, pub publisher) *Queue {
	return &Queue{
		clock:  clock,
		timing: timing,
		pub:    pub,
		log:    log.With("service", "notify"),
	}
}

// Push replaces whatever the queue holds with ev and starts its schedule.
// The returned event carries the instance id the queue assigned.
func (q *Queue) Push(ctx context.Context, ev domain.BadgeToastEvent) domain.BadgeToastEvent {
	ev.InstanceID = uuid.New()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.phase != PhaseEmpty {
		metrics.NotificationsSuperseded.Inc()
		q.log.DebugContext(ctx, "toast superseded",
			slog.String("badge_id", q.event.BadgeID),
			slog.String("phase", q.phase.String()),
		)
	}
	metrics.NotificationsPushed.Inc()

	q.cancelLocked()
	q.event = &ev
	q.enterLocked(ctx, PhasePending)

	return ev
}

// Dismiss starts the fade-out of a pending or visible toast immediately.
// It reports whether anything was dismissed.
func (q *Queue) Dismiss(ctx context.Context) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.phase != PhasePending && q.phase != PhaseVisible {
		return false
	}
	q.cancelLocked()
	q.enterLocked(ctx, PhaseDismissing)
	return true
}

// State returns the current phase and a copy of the held toast.
func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stateLocked()
}

func (q *Queue) stateLocked() State {
	st := State{Phase: q.phase}
	if q.event != nil {
		ev := *q.event
		st.Event = &ev
	}
	return st
}

func (q *Queue) cancelLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.armed = timerKey{}
}

// enterLocked switches to phase, arms the timer that leaves it and publishes
// the new state.
func (q *Queue) enterLocked(ctx context.Context, phase Phase) {
	q.phase = phase

	var d time.Duration
	switch phase {
	case PhasePending:
		d = q.timing.ShowDelay
	case PhaseVisible:
		d = q.timing.VisibleFor
	case PhaseDismissing:
		d = q.timing.FadeOut
	case PhaseEmpty:
		q.event = nil
		q.timer = nil
		q.armed = timerKey{}
	}

	if phase != PhaseEmpty {
		key := timerKey{instance: q.event.InstanceID, phase: phase}
		q.armed = key
		q.timer = q.clock.AfterFunc(d, func() { q.advance(key) })
	}

	q.pub.Publish(ctx, events.TopicNotification, q.stateLocked())
}

// advance runs when the timer armed for key fires.
func (q *Queue) advance(key timerKey) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if key != q.armed {
		q.log.Debug("stale toast timer ignored",
			slog.String("instance_id", key.instance.String()),
			slog.String("phase", key.phase.String()),
		)
		return
	}

	ctx := context.Background()
	switch q.phase {
	case PhasePending:
		q.enterLocked(ctx, PhaseVisible)
	case PhaseVisible:
		q.enterLocked(ctx, PhaseDismissing)
	case PhaseDismissing:
		q.enterLocked(ctx, PhaseEmpty)
	}
}
