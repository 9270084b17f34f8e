package leveling

import "github.com/heartmarshall/readrace/internal/domain"

// ApplyActivity records a qualifying reading activity on day.
//
//   - first activity ever: streak = 1
//   - same day as the last activity: unchanged
//   - exactly one day after: streak + 1
//   - any longer gap: streak = 1
//
// An activity dated before the last one is ignored. Experience points are
// never touched.
func ApplyActivity(stats domain.UserStats, day domain.Date) domain.UserStats {
	if stats.LastActivityDate == nil {
		stats.StreakDays = 1
		stats.LastActivityDate = &day
		return stats
	}

	gap := day.DaysSince(*stats.LastActivityDate)
	switch {
	case gap < 0, gap == 0:
		return stats
	case gap == 1:
		stats.StreakDays++
	default:
		stats.StreakDays = 1
	}
	stats.LastActivityDate = &day
	return stats
}

// RecordRaceResult counts a finished race and, if won, a win.
func RecordRaceResult(stats domain.UserStats, won bool) domain.UserStats {
	stats.RacesCompleted++
	if won {
		stats.RacesWon++
	}
	return stats
}
