// Package sharednotes keeps the user's notes and the notes other readers
// share for a book.
package sharednotes

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/pkg/ctxutil"
)

// Alert copy for a failed toggle.
const (
	TitleToggleFailed = "Note not updated"
	MsgToggleFailed   = "Could not change the note's visibility."
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type notesAPI interface {
	GetSharedNotes(ctx context.Context, bookID int64) ([]domain.SharedNote, error)
	ToggleNoteShared(ctx context.Context, noteID int64) (bool, error)
}

type alerter interface {
	Error(ctx context.Context, title, message string) domain.AlertSignal
}

type publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// SharedSnapshot is the shared-notes view for one book.
type SharedSnapshot struct {
	BookID int64               `json:"bookId"`
	Notes  []domain.SharedNote `json:"notes"`
}

// ---------------------------------------------------------------------------
// Sync
// ---------------------------------------------------------------------------

// Sync owns the local notes collection and the shared-notes snapshot.
type Sync struct {
	mu     sync.Mutex
	notes  []domain.Note
	shared *SharedSnapshot

	api    notesAPI
	alerts alerter
	pub    publisher
	log    *slog.Logger
}

// NewSync creates a Sync with empty collections.
func NewSync(log *slog.Logger, api notesAPI, alerts alerter, pub publisher) *Sync {
	return &Sync{
		api:    api,
		alerts: alerts,
		pub:    pub,
		log:    log.With("service", "sharednotes"),
	}
}

// LoadSharedNotes replaces the shared-notes snapshot with the remote one.
// Failures are logged and leave the snapshot untouched.
func (s *Sync) LoadSharedNotes(ctx context.Context, bookID int64) {
	notes, err := s.api.GetSharedNotes(ctx, bookID)
	if err != nil {
		s.log.DebugContext(ctx, "load shared notes failed",
			slog.Int64("book_id", bookID),
			slog.String("error", err.Error()),
		)
		return
	}

	snap := SharedSnapshot{BookID: bookID, Notes: slices.Clone(notes)}
	if snap.Notes == nil {
		snap.Notes = []domain.SharedNote{}
	}

	s.mu.Lock()
	s.shared = &snap
	s.mu.Unlock()

	s.pub.Publish(ctx, events.TopicSharedNotes, snap)
}

// ToggleVisibility flips a note's shared flag on the remote. The local note
// changes only after the remote confirms, even if ctx ends meanwhile.
// Returns the confirmed flag, or nil on failure.
func (s *Sync) ToggleVisibility(ctx context.Context, noteID int64) *bool {
	ctx = ctxutil.Detach(ctx)
	shared, err := s.api.ToggleNoteShared(ctx, noteID)
	if err != nil {
		s.log.WarnContext(ctx, "toggle note visibility failed",
			slog.Int64("note_id", noteID),
			slog.String("error", err.Error()),
		)
		s.alerts.Error(ctx, TitleToggleFailed, domain.UserMessage(err, MsgToggleFailed))
		return nil
	}

	s.mu.Lock()
	found := false
	for i := range s.notes {
		if s.notes[i].ID == noteID {
			s.notes[i].IsShared = shared
			found = true
			break
		}
	}
	snapshot := slices.Clone(s.notes)
	s.mu.Unlock()

	if !found {
		s.log.DebugContext(ctx, "toggled note not in local collection", slog.Int64("note_id", noteID))
	} else {
		s.pub.Publish(ctx, events.TopicNotes, snapshot)
	}
	return &shared
}

// ReplaceNotes seeds the local notes collection.
func (s *Sync) ReplaceNotes(ctx context.Context, notes []domain.Note) {
	next := slices.Clone(notes)
	if next == nil {
		next = []domain.Note{}
	}

	s.mu.Lock()
	s.notes = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	s.pub.Publish(ctx, events.TopicNotes, snapshot)
}

// Notes returns a copy of the local notes collection.
func (s *Sync) Notes() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.notes)
	if out == nil {
		out = []domain.Note{}
	}
	return out
}

// SharedNotes returns a copy of the shared-notes snapshot, or nil before the
// first successful load.
func (s *Sync) SharedNotes() *SharedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shared == nil {
		return nil
	}
	snap := SharedSnapshot{BookID: s.shared.BookID, Notes: slices.Clone(s.shared.Notes)}
	return &snap
}
