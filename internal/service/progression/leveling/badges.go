package leveling

import "github.com/heartmarshall/readrace/internal/domain"

// Rule pairs a badge with its eligibility predicate.
type Rule struct {
	Badge    domain.Badge
	Eligible func(domain.UserStats) bool
}

// Catalog is an ordered set of badge rules.
type Catalog []Rule

// DefaultCatalog returns the badges every reader can unlock.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Badge:    domain.Badge{ID: "first_page", Name: "First Page", Emoji: "📖", Description: "Earn your first experience points."},
			Eligible: func(s domain.UserStats) bool { return s.ExperiencePoints > 0 },
		},
		{
			Badge:    domain.Badge{ID: "streak_3", Name: "Warming Up", Emoji: "🔥", Description: "Read three days in a row."},
			Eligible: func(s domain.UserStats) bool { return s.StreakDays >= 3 },
		},
		{
			Badge:    domain.Badge{ID: "streak_7", Name: "Week Warrior", Emoji: "⚡", Description: "Read seven days in a row."},
			Eligible: func(s domain.UserStats) bool { return s.StreakDays >= 7 },
		},
		{
			Badge:    domain.Badge{ID: "streak_30", Name: "Unstoppable", Emoji: "🌋", Description: "Read thirty days in a row."},
			Eligible: func(s domain.UserStats) bool { return s.StreakDays >= 30 },
		},
		{
			Badge:    domain.Badge{ID: "level_5", Name: "Bookworm", Emoji: "🐛", Description: "Reach level 5."},
			Eligible: func(s domain.UserStats) bool { return s.Level >= 5 },
		},
		{
			Badge:    domain.Badge{ID: "level_10", Name: "Scholar", Emoji: "🎓", Description: "Reach level 10."},
			Eligible: func(s domain.UserStats) bool { return s.Level >= 10 },
		},
		{
			Badge:    domain.Badge{ID: "racer", Name: "Racer", Emoji: "🏁", Description: "Finish a reading race."},
			Eligible: func(s domain.UserStats) bool { return s.RacesCompleted >= 1 },
		},
		{
			Badge:    domain.Badge{ID: "champion", Name: "Champion", Emoji: "🏆", Description: "Win a reading race."},
			Eligible: func(s domain.UserStats) bool { return s.RacesWon >= 1 },
		},
		{
			Badge:    domain.Badge{ID: "marathoner", Name: "Marathoner", Emoji: "🏃", Description: "Finish ten reading races."},
			Eligible: func(s domain.UserStats) bool { return s.RacesCompleted >= 10 },
		},
	}
}

// Candidates returns the badges that stats qualifies for and that are not in
// unlocked, in catalog order. It only proposes; recording an unlock is the
// caller's job.
func (c Catalog) Candidates(stats domain.UserStats, unlocked map[string]bool) []domain.Badge {
	var out []domain.Badge
	for _, r := range c {
		if unlocked[r.Badge.ID] {
			continue
		}
		if r.Eligible(stats) {
			out = append(out, r.Badge)
		}
	}
	return out
}

// Lookup returns the badge with id, if the catalog has one.
func (c Catalog) Lookup(id string) (domain.Badge, bool) {
	for _, r := range c {
		if r.Badge.ID == id {
			return r.Badge, true
		}
	}
	return domain.Badge{}, false
}
