package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/readrace/internal/domain"
)

// progressionStore is what ProgressionHandler needs from progression.Store.
type progressionStore interface {
	View() domain.ProgressionView
	AwardXP(ctx context.Context, amount int) (domain.UserStats, error)
	RecordActivity(ctx context.Context, at time.Time, xp int) (domain.UserStats, error)
	SelectTitle(ctx context.Context, badgeID string) (domain.Badge, error)
	ClearTitle(ctx context.Context) error
}

// ProgressionHandler serves the user's XP, level, streak and badges.
type ProgressionHandler struct {
	store progressionStore
	log   *slog.Logger
	now   func() time.Time
}

// NewProgressionHandler creates a ProgressionHandler.
func NewProgressionHandler(store progressionStore, logger *slog.Logger) *ProgressionHandler {
	return &ProgressionHandler{
		store: store,
		log:   logger.With("handler", "progression"),
		now:   time.Now,
	}
}

type activityRequest struct {
	XP int `json:"xp"`
}

type awardRequest struct {
	Amount int `json:"amount"`
}

type titleRequest struct {
	BadgeID string `json:"badgeId" validate:"required"`
}

// Get handles GET /v1/progression.
func (h *ProgressionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.View())
}

// RecordActivity handles POST /v1/progression/activity.
func (h *ProgressionHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if _, err := h.store.RecordActivity(r.Context(), h.now(), req.XP); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.View())
}

// AwardXP handles POST /v1/progression/xp.
func (h *ProgressionHandler) AwardXP(w http.ResponseWriter, r *http.Request) {
	var req awardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if _, err := h.store.AwardXP(r.Context(), req.Amount); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.View())
}

// SelectTitle handles PUT /v1/progression/title.
func (h *ProgressionHandler) SelectTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if _, err := h.store.SelectTitle(r.Context(), req.BadgeID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.View())
}

// ClearTitle handles DELETE /v1/progression/title.
func (h *ProgressionHandler) ClearTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearTitle(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.View())
}
