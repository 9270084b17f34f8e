package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/goccy/go-json"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/service/progression/leveling"
)

const recordVersion = 1

// statsRecord is the persisted shape of UserStats. Level is not stored; it is
// derived from XP on every load.
type statsRecord struct {
	Version          int          `json:"version"`
	XP               int          `json:"xp"`
	StreakDays       int          `json:"streakDays"`
	LastActivityDate *domain.Date `json:"lastActivityDate"`
	RacesCompleted   int          `json:"racesCompleted"`
	RacesWon         int          `json:"racesWon"`
}

type badgesRecord struct {
	Version int      `json:"version"`
	IDs     []string `json:"ids"`
}

type titleRecord struct {
	BadgeID string `json:"badgeId"`
}

func encodeStats(s domain.UserStats) ([]byte, error) {
	return json.Marshal(statsRecord{
		Version:          recordVersion,
		XP:               s.ExperiencePoints,
		StreakDays:       s.StreakDays,
		LastActivityDate: s.LastActivityDate,
		RacesCompleted:   s.RacesCompleted,
		RacesWon:         s.RacesWon,
	})
}

func decodeStats(data []byte) (domain.UserStats, error) {
	var rec statsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.UserStats{}, fmt.Errorf("decode stats: %w", err)
	}
	if rec.XP < 0 || rec.StreakDays < 0 || rec.RacesCompleted < 0 || rec.RacesWon < 0 {
		return domain.UserStats{}, fmt.Errorf("decode stats: negative counter")
	}
	if rec.RacesWon > rec.RacesCompleted {
		return domain.UserStats{}, fmt.Errorf("decode stats: more wins than races")
	}
	if rec.StreakDays > 0 && rec.LastActivityDate == nil {
		return domain.UserStats{}, fmt.Errorf("decode stats: streak without activity date")
	}

	return leveling.Normalize(domain.UserStats{
		ExperiencePoints: rec.XP,
		StreakDays:       rec.StreakDays,
		LastActivityDate: rec.LastActivityDate,
		RacesCompleted:   rec.RacesCompleted,
		RacesWon:         rec.RacesWon,
	}), nil
}

func encodeBadges(unlocked map[string]bool) ([]byte, error) {
	ids := make([]string, 0, len(unlocked))
	for id := range unlocked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return json.Marshal(badgesRecord{Version: recordVersion, IDs: ids})
}

func decodeBadges(data []byte) (map[string]bool, error) {
	var rec badgesRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	out := make(map[string]bool, len(rec.IDs))
	for _, id := range rec.IDs {
		out[id] = true
	}
	return out, nil
}

// Load reads the persisted snapshot, unlocked badges and title. Anything
// missing or unreadable falls back to its default; Load never fails.
func (s *Store) Load(ctx context.Context) domain.UserStats {
	stats := domain.DefaultUserStats()
	if data, ok := s.read(ctx, KeyStats); ok {
		decoded, err := decodeStats(data)
		if err != nil {
			s.log.WarnContext(ctx, "corrupt progression snapshot, using default",
				slog.String("key", KeyStats),
				slog.String("error", err.Error()),
			)
		} else {
			stats = decoded
		}
	}

	unlocked := make(map[string]bool)
	if data, ok := s.read(ctx, KeyBadges); ok {
		decoded, err := decodeBadges(data)
		if err != nil {
			s.log.WarnContext(ctx, "corrupt unlocked badge set, using empty set",
				slog.String("key", KeyBadges),
				slog.String("error", err.Error()),
			)
		} else {
			unlocked = decoded
		}
	}

	title := ""
	if data, ok := s.read(ctx, KeyTitle); ok {
		var rec titleRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.log.WarnContext(ctx, "corrupt title, using none", slog.String("error", err.Error()))
		} else if _, known := s.catalog.Lookup(rec.BadgeID); known && unlocked[rec.BadgeID] {
			title = rec.BadgeID
		}
	}

	s.mu.Lock()
	s.stats = stats
	s.unlocked = unlocked
	s.title = title
	s.mu.Unlock()

	s.log.InfoContext(ctx, "progression loaded",
		slog.Int("xp", stats.ExperiencePoints),
		slog.Int("level", stats.Level),
		slog.Int("streak", stats.StreakDays),
		slog.Int("badges", len(unlocked)),
	)

	return stats
}

// read returns the value at key; ok is false when it is absent or the store
// could not be read.
func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.WarnContext(ctx, "read local state failed, using default",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return data, true
}
