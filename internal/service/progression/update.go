package progression

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/metrics"
	"github.com/heartmarshall/readrace/internal/service/progression/leveling"
)

// Mutator is a pure transformation of the progression snapshot.
type Mutator func(domain.UserStats) (domain.UserStats, error)

// Snapshot returns a copy of the current stats.
func (s *Store) Snapshot() domain.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStats(s.stats)
}

// View returns the stats together with level progress, title and unlocked
// badge ids.
func (s *Store) View() domain.ProgressionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Store) viewLocked() domain.ProgressionView {
	view := domain.ProgressionView{
		Stats:    copyStats(s.stats),
		Progress: leveling.Progress(s.stats.ExperiencePoints),
		Unlocked: make([]string, 0, len(s.unlocked)),
	}
	for _, r := range s.catalog {
		if s.unlocked[r.Badge.ID] {
			view.Unlocked = append(view.Unlocked, r.Badge.ID)
		}
	}
	if s.title != "" {
		if b, ok := s.catalog.Lookup(s.title); ok {
			view.Title = &b
		}
	}
	return view
}

// Update applies mutate to the snapshot and persists the result before
// returning it. On any error the snapshot is left unchanged.
// Experience points never decrease through Update; use Reset.
func (s *Store) Update(ctx context.Context, mutate Mutator) (domain.UserStats, error) {
	return s.update(ctx, mutate, false)
}

func (s *Store) update(ctx context.Context, mutate Mutator, reset bool) (domain.UserStats, error) {
	s.mu.Lock()

	prev := copyStats(s.stats)
	next, err := mutate(copyStats(s.stats))
	if err != nil {
		s.mu.Unlock()
		return prev, err
	}
	next = leveling.Normalize(next)
	if !reset && next.ExperiencePoints < prev.ExperiencePoints {
		s.mu.Unlock()
		return prev, domain.NewValidationError("experiencePoints", "must not decrease")
	}

	data, err := encodeStats(next)
	if err != nil {
		s.mu.Unlock()
		return prev, fmt.Errorf("encode stats: %w", err)
	}
	if err := s.kv.Put(ctx, KeyStats, data); err != nil {
		s.mu.Unlock()
		return prev, fmt.Errorf("persist stats: %w", err)
	}
	s.stats = next

	unlocked := s.unlockLocked(ctx, next)
	view := s.viewLocked()
	s.mu.Unlock()

	s.pub.Publish(ctx, events.TopicProgression, view)
	for _, b := range unlocked {
		s.toasts.Push(ctx, domain.ToastFor(b))
	}

	return copyStats(next), nil
}

// unlockLocked records the badges that stats newly qualifies for. Badges are
// returned only once the enlarged set is persisted; if that fails they stay
// candidates and are proposed again by the next update.
func (s *Store) unlockLocked(ctx context.Context, stats domain.UserStats) []domain.Badge {
	candidates := s.catalog.Candidates(stats, s.unlocked)
	if len(candidates) == 0 {
		return nil
	}

	enlarged := maps.Clone(s.unlocked)
	for _, b := range candidates {
		enlarged[b.ID] = true
	}
	data, err := encodeBadges(enlarged)
	if err == nil {
		err = s.kv.Put(ctx, KeyBadges, data)
	}
	if err != nil {
		s.log.WarnContext(ctx, "persist unlocked badges failed",
			slog.Int("candidates", len(candidates)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	s.unlocked = enlarged

	for _, b := range candidates {
		metrics.BadgesUnlocked.WithLabelValues(b.ID).Inc()
		s.log.InfoContext(ctx, "badge unlocked", slog.String("badge", b.ID))
	}
	return candidates
}

// AwardXP adds amount experience points.
func (s *Store) AwardXP(ctx context.Context, amount int) (domain.UserStats, error) {
	stats, err := s.Update(ctx, func(st domain.UserStats) (domain.UserStats, error) {
		return leveling.AwardXP(st, amount)
	})
	if err != nil {
		return stats, err
	}
	metrics.XPAwarded.Add(float64(amount))
	return stats, nil
}

// RecordActivity records reading activity at the given instant and, when xp
// is positive, awards it in the same persisted update.
func (s *Store) RecordActivity(ctx context.Context, at time.Time, xp int) (domain.UserStats, error) {
	if xp < 0 {
		return s.Snapshot(), domain.NewValidationError("xp", "must not be negative")
	}
	day := domain.DateOf(at.In(s.loc))

	stats, err := s.Update(ctx, func(st domain.UserStats) (domain.UserStats, error) {
		st = leveling.ApplyActivity(st, day)
		if xp == 0 {
			return st, nil
		}
		return leveling.AwardXP(st, xp)
	})
	if err != nil {
		return stats, err
	}
	if xp > 0 {
		metrics.XPAwarded.Add(float64(xp))
	}
	return stats, nil
}

// RecordRaceResult records a finished race, today's activity and the xp
// reward as one update.
func (s *Store) RecordRaceResult(ctx context.Context, won bool, xp int) (domain.UserStats, error) {
	if xp < 0 {
		return s.Snapshot(), domain.NewValidationError("xp", "must not be negative")
	}
	today := s.Today()

	stats, err := s.Update(ctx, func(st domain.UserStats) (domain.UserStats, error) {
		st = leveling.RecordRaceResult(st, won)
		st = leveling.ApplyActivity(st, today)
		if xp == 0 {
			return st, nil
		}
		return leveling.AwardXP(st, xp)
	})
	if err != nil {
		return stats, err
	}
	if xp > 0 {
		metrics.XPAwarded.Add(float64(xp))
	}
	return stats, nil
}

// Reset restores the default snapshot. Unlocked badges and the title are kept.
func (s *Store) Reset(ctx context.Context) (domain.UserStats, error) {
	return s.update(ctx, func(domain.UserStats) (domain.UserStats, error) {
		return domain.DefaultUserStats(), nil
	}, true)
}

func copyStats(st domain.UserStats) domain.UserStats {
	if st.LastActivityDate != nil {
		d := *st.LastActivityDate
		st.LastActivityDate = &d
	}
	return st
}
