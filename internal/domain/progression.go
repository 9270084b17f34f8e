package domain

// UserStats is the current user's progression snapshot.
// Level is always derived from ExperiencePoints and never set by hand.
type UserStats struct {
	ExperiencePoints int   `json:"experiencePoints"`
	Level            int   `json:"level"`
	StreakDays       int   `json:"streakDays"`
	LastActivityDate *Date `json:"lastActivityDate"`
	RacesCompleted   int   `json:"racesCompleted"`
	RacesWon         int   `json:"racesWon"`
}

// DefaultUserStats is the snapshot used when nothing valid is persisted.
func DefaultUserStats() UserStats {
	return UserStats{Level: 1}
}

// LevelProgress describes how far the user is into the current level.
type LevelProgress struct {
	Level       int `json:"level"`
	IntoLevel   int `json:"intoLevel"`
	ToNextLevel int `json:"toNextLevel"`
}

// ProgressionView is what presentation renders for the progression screen.
type ProgressionView struct {
	Stats    UserStats     `json:"stats"`
	Progress LevelProgress `json:"progress"`
	Title    *Badge        `json:"title"`
	Unlocked []string      `json:"unlocked"`
}
