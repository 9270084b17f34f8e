package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/heartmarshall/readrace/internal/domain"
)

// CreateRace starts a race over bookID and returns its id.
func (c *Client) CreateRace(ctx context.Context, bookID int64) (int64, error) {
	var resp createRaceResponse
	if err := c.do(ctx, "create_race", http.MethodPost, "/races", createRaceRequest{BookID: bookID}, &resp); err != nil {
		return 0, err
	}
	if resp.RaceID <= 0 {
		return 0, fmt.Errorf("create_race: %w: missing race id", domain.ErrUnavailable)
	}
	return resp.RaceID, nil
}

// JoinRace joins raceID.
func (c *Client) JoinRace(ctx context.Context, raceID int64) error {
	return c.do(ctx, "join_race", http.MethodPost, fmt.Sprintf("/races/%d/join", raceID), nil, nil)
}

// GetRaceLeaderboard returns the leaderboard in server order.
func (c *Client) GetRaceLeaderboard(ctx context.Context, raceID int64) ([]domain.LeaderboardEntry, error) {
	var resp leaderboardResponse
	if err := c.do(ctx, "get_race_leaderboard", http.MethodGet, fmt.Sprintf("/races/%d/leaderboard", raceID), nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Entries {
		if resp.Entries[i].RaceID == 0 {
			resp.Entries[i].RaceID = raceID
		}
	}
	return resp.Entries, nil
}

// FinishRace reports the caller's finish.
func (c *Client) FinishRace(ctx context.Context, raceID int64) (domain.FinishResult, error) {
	var resp finishRaceResponse
	if err := c.do(ctx, "finish_race", http.MethodPost, fmt.Sprintf("/races/%d/finish", raceID), nil, &resp); err != nil {
		return domain.FinishResult{}, err
	}
	if resp.IsWinner == nil {
		return domain.FinishResult{}, fmt.Errorf("finish_race: %w: missing isWinner", domain.ErrUnavailable)
	}
	return domain.FinishResult{IsWinner: *resp.IsWinner}, nil
}
