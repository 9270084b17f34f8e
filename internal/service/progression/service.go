// Package progression owns the current user's progression snapshot: XP,
// level, streak, unlocked badges and the selected title. Every mutation is
// persisted to the local key-value store before it becomes visible.
package progression

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/service/progression/leveling"
)

// Keys in the local key-value store.
const (
	KeyStats  = "progression.stats"
	KeyTitle  = "progression.title"
	KeyBadges = "progression.badges"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

// kvStore returns domain.ErrNotFound from Get when the key is absent.
// Deleting an absent key is not an error.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type toastPusher interface {
	Push(ctx context.Context, ev domain.BadgeToastEvent) domain.BadgeToastEvent
}

type publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store is the single owner of the progression snapshot.
type Store struct {
	mu       sync.Mutex
	stats    domain.UserStats
	unlocked map[string]bool
	title    string

	kv      kvStore
	toasts  toastPusher
	pub     publisher
	catalog leveling.Catalog
	loc     *time.Location
	log     *slog.Logger
	now     func() time.Time
}

// NewStore creates a Store holding the default snapshot. Call Load to read
// the persisted one.
func NewStore(
	log *slog.Logger,
	kv kvStore,
	toasts toastPusher,
	pub publisher,
	catalog leveling.Catalog,
	loc *time.Location,
) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		stats:    domain.DefaultUserStats(),
		unlocked: make(map[string]bool),
		kv:       kv,
		toasts:   toasts,
		pub:      pub,
		catalog:  catalog,
		loc:      loc,
		log:      log.With("service", "progression"),
		now:      time.Now,
	}
}

// Today returns the current calendar date in the user's timezone.
func (s *Store) Today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

// ParseTimezone parses a timezone string, returning time.Local as fallback.
func ParseTimezone(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}
