package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/service/alert"
	"github.com/heartmarshall/readrace/internal/service/race"
)

// raceManager is what RaceHandler needs from race.Manager.
type raceManager interface {
	CreateRace(ctx context.Context, bookID int64) (int64, bool)
	JoinRace(ctx context.Context, raceID int64) bool
	FinishRace(ctx context.Context, raceID int64) *domain.FinishResult
	LoadLeaderboard(ctx context.Context, raceID int64)
	Leaderboard() *domain.Leaderboard
	Races() []domain.Race
	Watch(raceID int64)
}

// RaceHandler serves race sessions and the leaderboard. A failed write
// answers with the alert raised for that request.
type RaceHandler struct {
	races raceManager
	log   *slog.Logger
}

// NewRaceHandler creates a RaceHandler.
func NewRaceHandler(races raceManager, logger *slog.Logger) *RaceHandler {
	return &RaceHandler{
		races: races,
		log:   logger.With("handler", "race"),
	}
}

type createRaceRequest struct {
	BookID int64 `json:"bookId" validate:"gt=0"`
}

type createRaceResponse struct {
	RaceID int64 `json:"raceId"`
}

// List handles GET /v1/races.
func (h *RaceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.races.Races())
}

// Create handles POST /v1/races.
func (h *RaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	ctx, raised := alert.WithCapture(r.Context())
	id, ok := h.races.CreateRace(ctx, req.BookID)
	if !ok {
		writeFailure(w, race.MsgCreateFailed, raised())
		return
	}
	writeJSON(w, http.StatusCreated, createRaceResponse{RaceID: id})
}

// Join handles POST /v1/races/{id}/join.
func (h *RaceHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	ctx, raised := alert.WithCapture(r.Context())
	if !h.races.JoinRace(ctx, id) {
		writeFailure(w, race.MsgJoinFailed, raised())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"joined": true})
}

// Finish handles POST /v1/races/{id}/finish.
func (h *RaceHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	ctx, raised := alert.WithCapture(r.Context())
	res := h.races.FinishRace(ctx, id)
	if res == nil {
		writeFailure(w, race.MsgFinishFailed, raised())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Leaderboard handles GET /v1/races/{id}/leaderboard.
func (h *RaceHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeLeaderboard(w, id)
}

// RefreshLeaderboard handles POST /v1/races/{id}/leaderboard/refresh.
// A failed refresh answers with the snapshot that was already held.
func (h *RaceHandler) RefreshLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.races.LoadLeaderboard(r.Context(), id)
	h.writeLeaderboard(w, id)
}

func (h *RaceHandler) writeLeaderboard(w http.ResponseWriter, id int64) {
	board := h.races.Leaderboard()
	if board == nil || board.RaceID != id {
		writeError(w, http.StatusNotFound, "leaderboard not loaded")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Watch handles PUT /v1/races/{id}/watch.
func (h *RaceHandler) Watch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.races.Watch(id)
	w.WriteHeader(http.StatusNoContent)
}

// Unwatch handles DELETE /v1/races/watch.
func (h *RaceHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	h.races.Watch(0)
	w.WriteHeader(http.StatusNoContent)
}
