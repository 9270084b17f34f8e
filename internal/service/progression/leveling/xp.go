package leveling

import (
	"math"

	"github.com/heartmarshall/readrace/internal/domain"
)

// AwardXP adds amount to the stats' experience points and recomputes the level.
// amount must be positive.
func AwardXP(stats domain.UserStats, amount int) (domain.UserStats, error) {
	if amount <= 0 {
		return stats, domain.NewValidationError("amount", "must be a positive integer")
	}
	if stats.ExperiencePoints > math.MaxInt-amount {
		return stats, domain.NewValidationError("amount", "experience points overflow")
	}

	stats.ExperiencePoints += amount
	stats.Level = LevelFor(stats.ExperiencePoints)
	return stats, nil
}

// Normalize re-derives the level from experience points.
func Normalize(stats domain.UserStats) domain.UserStats {
	stats.Level = LevelFor(stats.ExperiencePoints)
	return stats
}
