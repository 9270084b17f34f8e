package sharednotes

import (
	"context"
	"sync"

	"github.com/heartmarshall/readrace/internal/domain"
)

var _ notesAPI = &notesAPIMock{}

type notesAPIMock struct {
	GetSharedNotesFunc   func(ctx context.Context, bookID int64) ([]domain.SharedNote, error)
	ToggleNoteSharedFunc func(ctx context.Context, noteID int64) (bool, error)

	calls struct {
		GetSharedNotes   []struct{ BookID int64 }
		ToggleNoteShared []struct{ NoteID int64 }
	}
	lockGetSharedNotes   sync.RWMutex
	lockToggleNoteShared sync.RWMutex
}

func (mock *notesAPIMock) GetSharedNotes(ctx context.Context, bookID int64) ([]domain.SharedNote, error) {
	if mock.GetSharedNotesFunc == nil {
		panic("notesAPIMock.GetSharedNotesFunc: method is nil but notesAPI.GetSharedNotes was just called")
	}
	mock.lockGetSharedNotes.Lock()
	mock.calls.GetSharedNotes = append(mock.calls.GetSharedNotes, struct{ BookID int64 }{BookID: bookID})
	mock.lockGetSharedNotes.Unlock()
	return mock.GetSharedNotesFunc(ctx, bookID)
}

func (mock *notesAPIMock) GetSharedNotesCalls() []struct{ BookID int64 } {
	mock.lockGetSharedNotes.RLock()
	calls := mock.calls.GetSharedNotes
	mock.lockGetSharedNotes.RUnlock()
	return calls
}

func (mock *notesAPIMock) ToggleNoteShared(ctx context.Context, noteID int64) (bool, error) {
	if mock.ToggleNoteSharedFunc == nil {
		panic("notesAPIMock.ToggleNoteSharedFunc: method is nil but notesAPI.ToggleNoteShared was just called")
	}
	mock.lockToggleNoteShared.Lock()
	mock.calls.ToggleNoteShared = append(mock.calls.ToggleNoteShared, struct{ NoteID int64 }{NoteID: noteID})
	mock.lockToggleNoteShared.Unlock()
	return mock.ToggleNoteSharedFunc(ctx, noteID)
}

func (mock *notesAPIMock) ToggleNoteSharedCalls() []struct{ NoteID int64 } {
	mock.lockToggleNoteShared.RLock()
	calls := mock.calls.ToggleNoteShared
	mock.lockToggleNoteShared.RUnlock()
	return calls
}

type alerterMock struct {
	mu       sync.Mutex
	messages []string
}

func (a *alerterMock) Error(_ context.Context, title, message string) domain.AlertSignal {
	a.mu.Lock()
	a.messages = append(a.messages, message)
	a.mu.Unlock()
	return domain.AlertSignal{Kind: domain.AlertError, Title: title, Message: message}
}

func (a *alerterMock) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

type publisherMock struct {
	mu     sync.Mutex
	topics []string
}

func (p *publisherMock) Publish(_ context.Context, topic string, _ any) {
	p.mu.Lock()
	p.topics = append(p.topics, topic)
	p.mu.Unlock()
}

func (p *publisherMock) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
