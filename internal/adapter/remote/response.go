package remote

import "github.com/heartmarshall/readrace/internal/domain"

// errorResponse is the backend's error body.
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type createRaceRequest struct {
	BookID int64 `json:"bookId"`
}

type createRaceResponse struct {
	RaceID int64 `json:"raceId"`
}

type leaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// Flags are pointers so an absent field is not read as false.
type finishRaceResponse struct {
	IsWinner *bool `json:"isWinner"`
}

type toggleSharedResponse struct {
	IsShared *bool `json:"isShared"`
}
