package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/heartmarshall/readrace/internal/domain"
)

// GetSharedNotes returns the notes other readers share on bookID.
func (c *Client) GetSharedNotes(ctx context.Context, bookID int64) ([]domain.SharedNote, error) {
	var notes []domain.SharedNote
	if err := c.do(ctx, "get_shared_notes", http.MethodGet, fmt.Sprintf("/books/%d/shared-notes", bookID), nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []domain.SharedNote{}
	}
	return notes, nil
}

// ToggleNoteShared flips a note's shared flag and returns the new value.
func (c *Client) ToggleNoteShared(ctx context.Context, noteID int64) (bool, error) {
	var resp toggleSharedResponse
	if err := c.do(ctx, "toggle_note_shared", http.MethodPost, fmt.Sprintf("/notes/%d/toggle-shared", noteID), nil, &resp); err != nil {
		return false, err
	}
	if resp.IsShared == nil {
		return false, fmt.Errorf("toggle_note_shared: %w: missing isShared", domain.ErrUnavailable)
	}
	return *resp.IsShared, nil
}
