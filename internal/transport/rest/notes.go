package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/service/alert"
	"github.com/heartmarshall/readrace/internal/service/sharednotes"
)

// notesSync is what NotesHandler needs from sharednotes.Sync.
type notesSync interface {
	LoadSharedNotes(ctx context.Context, bookID int64)
	SharedNotes() *sharednotes.SharedSnapshot
	ToggleVisibility(ctx context.Context, noteID int64) *bool
	ReplaceNotes(ctx context.Context, notes []domain.Note)
	Notes() []domain.Note
}

// NotesHandler serves the user's notes and the book's shared notes.
type NotesHandler struct {
	sync notesSync
	log  *slog.Logger
}

// NewNotesHandler creates a NotesHandler.
func NewNotesHandler(sync notesSync, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{
		sync: sync,
		log:  logger.With("handler", "notes"),
	}
}

type toggleResponse struct {
	IsShared bool `json:"isShared"`
}

// SharedNotes handles GET /v1/books/{id}/shared-notes.
func (h *NotesHandler) SharedNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeShared(w, id)
}

// RefreshSharedNotes handles POST /v1/books/{id}/shared-notes/refresh.
func (h *NotesHandler) RefreshSharedNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.sync.LoadSharedNotes(r.Context(), id)
	h.writeShared(w, id)
}

func (h *NotesHandler) writeShared(w http.ResponseWriter, bookID int64) {
	snap := h.sync.SharedNotes()
	if snap == nil || snap.BookID != bookID {
		writeError(w, http.StatusNotFound, "shared notes not loaded")
		return
	}
	writeJSON(w, http.StatusOK, snap.Notes)
}

// List handles GET /v1/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sync.Notes())
}

// Replace handles PUT /v1/notes.
func (h *NotesHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var notes []domain.Note
	if err := decodeJSON(w, r, &notes); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.sync.ReplaceNotes(r.Context(), notes)
	writeJSON(w, http.StatusOK, h.sync.Notes())
}

// ToggleShared handles POST /v1/notes/{id}/toggle-shared.
func (h *NotesHandler) ToggleShared(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	ctx, raised := alert.WithCapture(r.Context())
	shared := h.sync.ToggleVisibility(ctx, id)
	if shared == nil {
		writeFailure(w, sharednotes.MsgToggleFailed, raised())
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{IsShared: *shared})
}
