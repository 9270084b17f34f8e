package domain

import "time"

// RaceStatus is the lifecycle state of a reading race.
type RaceStatus string

const (
	RaceStatusActive   RaceStatus = "active"
	RaceStatusFinished RaceStatus = "finished"
)

func (s RaceStatus) String() string { return string(s) }

func (s RaceStatus) IsValid() bool {
	switch s {
	case RaceStatusActive, RaceStatusFinished:
		return true
	}
	return false
}

// Race is a timed reading competition over one book.
// Status becomes finished only after the backend confirmed the finish.
type Race struct {
	ID        int64      `json:"id"`
	BookID    int64      `json:"bookId"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    RaceStatus `json:"status"`
	Joined    bool       `json:"joined"`
}

// LeaderboardEntry is one participant's line on a race leaderboard.
type LeaderboardEntry struct {
	RaceID   int64   `json:"raceId"`
	UserID   string  `json:"userId"`
	Username string  `json:"username,omitempty"`
	Progress float64 `json:"progress"`
	Rank     int     `json:"rank"`
}

// Leaderboard is the server-ordered ranking of a race. Entries are kept in the
// order received and never re-sorted.
type Leaderboard struct {
	RaceID    int64              `json:"raceId"`
	Entries   []LeaderboardEntry `json:"entries"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// FinishResult is the backend's answer to a finish request.
type FinishResult struct {
	IsWinner bool `json:"isWinner"`
}
