// Package alert owns the single ephemeral alert slot shown by presentation.
package alert

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

type publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// Service holds the latest alert signal. Raising a signal replaces the
// previous one; nothing is queued.
type Service struct {
	mu      sync.Mutex
	current *domain.AlertSignal

	pub publisher
	log *slog.Logger
	now func() time.Time
}

// NewService creates an empty alert channel.
func NewService(log *slog.Logger, pub publisher) *Service {
	return &Service{
		pub: pub,
		log: log.With("service", "alert"),
		now: time.Now,
	}
}

// Raise overwrites the current signal and publishes it. A capture on ctx
// (see WithCapture) receives it too.
func (s *Service) Raise(ctx context.Context, kind domain.AlertKind, title, message string) domain.AlertSignal {
	sig := domain.AlertSignal{
		ID:       uuid.New(),
		Kind:     kind,
		Title:    title,
		Message:  message,
		RaisedAt: s.now(),
	}

	s.mu.Lock()
	s.current = &sig
	s.mu.Unlock()
	Record(ctx, sig)

	metrics.AlertsRaised.WithLabelValues(kind.String()).Inc()
	s.log.DebugContext(ctx, "alert raised",
		slog.String("kind", kind.String()),
		slog.String("title", title),
	)
	s.pub.Publish(ctx, events.TopicAlert, sig)

	return sig
}

func (s *Service) Error(ctx context.Context, title, message string) domain.AlertSignal {
	return s.Raise(ctx, domain.AlertError, title, message)
}

func (s *Service) Success(ctx context.Context, title, message string) domain.AlertSignal {
	return s.Raise(ctx, domain.AlertSuccess, title, message)
}

func (s *Service) Info(ctx context.Context, title, message string) domain.AlertSignal {
	return s.Raise(ctx, domain.AlertInfo, title, message)
}

// Current returns a copy of the latest signal, or nil if none is showing.
func (s *Service) Current() *domain.AlertSignal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	sig := *s.current
	return &sig
}

// Clear drops the current signal once presentation has shown it.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.pub.Publish(ctx, events.TopicAlert, nil)
}
