package rest

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/service/alert"
	"github.com/heartmarshall/readrace/internal/service/notify"
	"github.com/heartmarshall/readrace/internal/service/sharednotes"
)

type storePingerMock struct {
	err error
}

func (m *storePingerMock) Ping(context.Context) error { return m.err }

// progressionStoreMock is a mock implementation of progressionStore.
type progressionStoreMock struct {
	ViewFunc           func() domain.ProgressionView
	AwardXPFunc        func(ctx context.Context, amount int) (domain.UserStats, error)
	RecordActivityFunc func(ctx context.Context, at time.Time, xp int) (domain.UserStats, error)
	SelectTitleFunc    func(ctx context.Context, badgeID string) (domain.Badge, error)
	ClearTitleFunc     func(ctx context.Context) error

	calls struct {
		AwardXP        []struct{ Amount int }
		RecordActivity []struct{ XP int }
		SelectTitle    []struct{ BadgeID string }
	}
	lock sync.RWMutex
}

func (mock *progressionStoreMock) View() domain.ProgressionView {
	if mock.ViewFunc == nil {
		return domain.ProgressionView{}
	}
	return mock.ViewFunc()
}

func (mock *progressionStoreMock) AwardXP(ctx context.Context, amount int) (domain.UserStats, error) {
	if mock.AwardXPFunc == nil {
		panic("progressionStoreMock.AwardXPFunc: method is nil but progressionStore.AwardXP was just called")
	}
	mock.lock.Lock()
	mock.calls.AwardXP = append(mock.calls.AwardXP, struct{ Amount int }{amount})
	mock.lock.Unlock()
	return mock.AwardXPFunc(ctx, amount)
}

func (mock *progressionStoreMock) RecordActivity(ctx context.Context, at time.Time, xp int) (domain.UserStats, error) {
	if mock.RecordActivityFunc == nil {
		panic("progressionStoreMock.RecordActivityFunc: method is nil but progressionStore.RecordActivity was just called")
	}
	mock.lock.Lock()
	mock.calls.RecordActivity = append(mock.calls.RecordActivity, struct{ XP int }{xp})
	mock.lock.Unlock()
	return mock.RecordActivityFunc(ctx, at, xp)
}

func (mock *progressionStoreMock) SelectTitle(ctx context.Context, badgeID string) (domain.Badge, error) {
	if mock.SelectTitleFunc == nil {
		panic("progressionStoreMock.SelectTitleFunc: method is nil but progressionStore.SelectTitle was just called")
	}
	mock.lock.Lock()
	mock.calls.SelectTitle = append(mock.calls.SelectTitle, struct{ BadgeID string }{badgeID})
	mock.lock.Unlock()
	return mock.SelectTitleFunc(ctx, badgeID)
}

func (mock *progressionStoreMock) ClearTitle(ctx context.Context) error {
	if mock.ClearTitleFunc == nil {
		panic("progressionStoreMock.ClearTitleFunc: method is nil but progressionStore.ClearTitle was just called")
	}
	return mock.ClearTitleFunc(ctx)
}

func (mock *progressionStoreMock) AwardXPCalls() []struct{ Amount int } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.AwardXP
}

func (mock *progressionStoreMock) SelectTitleCalls() []struct{ BadgeID string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SelectTitle
}

// raceManagerMock is a mock implementation of raceManager.
type raceManagerMock struct {
	CreateRaceFunc      func(ctx context.Context, bookID int64) (int64, bool)
	JoinRaceFunc        func(ctx context.Context, raceID int64) bool
	FinishRaceFunc      func(ctx context.Context, raceID int64) *domain.FinishResult
	LoadLeaderboardFunc func(ctx context.Context, raceID int64)
	LeaderboardFunc     func() *domain.Leaderboard
	RacesFunc           func() []domain.Race

	calls struct {
		Watch           []int64
		LoadLeaderboard []int64
	}
	lock sync.RWMutex
}

func (mock *raceManagerMock) CreateRace(ctx context.Context, bookID int64) (int64, bool) {
	if mock.CreateRaceFunc == nil {
		panic("raceManagerMock.CreateRaceFunc: method is nil but raceManager.CreateRace was just called")
	}
	return mock.CreateRaceFunc(ctx, bookID)
}

func (mock *raceManagerMock) JoinRace(ctx context.Context, raceID int64) bool {
	if mock.JoinRaceFunc == nil {
		panic("raceManagerMock.JoinRaceFunc: method is nil but raceManager.JoinRace was just called")
	}
	return mock.JoinRaceFunc(ctx, raceID)
}

func (mock *raceManagerMock) FinishRace(ctx context.Context, raceID int64) *domain.FinishResult {
	if mock.FinishRaceFunc == nil {
		panic("raceManagerMock.FinishRaceFunc: method is nil but raceManager.FinishRace was just called")
	}
	return mock.FinishRaceFunc(ctx, raceID)
}

func (mock *raceManagerMock) LoadLeaderboard(ctx context.Context, raceID int64) {
	mock.lock.Lock()
	mock.calls.LoadLeaderboard = append(mock.calls.LoadLeaderboard, raceID)
	mock.lock.Unlock()
	if mock.LoadLeaderboardFunc != nil {
		mock.LoadLeaderboardFunc(ctx, raceID)
	}
}

func (mock *raceManagerMock) Leaderboard() *domain.Leaderboard {
	if mock.LeaderboardFunc == nil {
		return nil
	}
	return mock.LeaderboardFunc()
}

func (mock *raceManagerMock) Races() []domain.Race {
	if mock.RacesFunc == nil {
		return []domain.Race{}
	}
	return mock.RacesFunc()
}

func (mock *raceManagerMock) Watch(raceID int64) {
	mock.lock.Lock()
	defer mock.lock.Unlock()
	mock.calls.Watch = append(mock.calls.Watch, raceID)
}

func (mock *raceManagerMock) WatchCalls() []int64 {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Watch
}

func (mock *raceManagerMock) LoadLeaderboardCalls() []int64 {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.LoadLeaderboard
}

// notesSyncMock is a mock implementation of notesSync.
type notesSyncMock struct {
	LoadSharedNotesFunc  func(ctx context.Context, bookID int64)
	SharedNotesFunc      func() *sharednotes.SharedSnapshot
	ToggleVisibilityFunc func(ctx context.Context, noteID int64) *bool

	mu       sync.Mutex
	notes    []domain.Note
	replaced int
}

func (mock *notesSyncMock) LoadSharedNotes(ctx context.Context, bookID int64) {
	if mock.LoadSharedNotesFunc != nil {
		mock.LoadSharedNotesFunc(ctx, bookID)
	}
}

func (mock *notesSyncMock) SharedNotes() *sharednotes.SharedSnapshot {
	if mock.SharedNotesFunc == nil {
		return nil
	}
	return mock.SharedNotesFunc()
}

func (mock *notesSyncMock) ToggleVisibility(ctx context.Context, noteID int64) *bool {
	if mock.ToggleVisibilityFunc == nil {
		panic("notesSyncMock.ToggleVisibilityFunc: method is nil but notesSync.ToggleVisibility was just called")
	}
	return mock.ToggleVisibilityFunc(ctx, noteID)
}

func (mock *notesSyncMock) ReplaceNotes(_ context.Context, notes []domain.Note) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.notes = append([]domain.Note{}, notes...)
	mock.replaced++
}

func (mock *notesSyncMock) Notes() []domain.Note {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]domain.Note{}, mock.notes...)
}

// toastQueueFake holds a fixed state and counts dismissals.
type toastQueueFake struct {
	state     notify.State
	dismissed bool
	calls     int
}

func (q *toastQueueFake) State() notify.State { return q.state }

func (q *toastQueueFake) Dismiss(context.Context) bool {
	q.calls++
	return q.dismissed
}

// alertSlotFake is an in-memory alert slot.
type alertSlotFake struct {
	mu      sync.Mutex
	current *domain.AlertSignal
}

func (a *alertSlotFake) Current() *domain.AlertSignal {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	sig := *a.current
	return &sig
}

func (a *alertSlotFake) Clear(context.Context) {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
}

func (a *alertSlotFake) set(kind domain.AlertKind, title, message string) domain.AlertSignal {
	sig := domain.AlertSignal{Kind: kind, Title: title, Message: message}
	a.mu.Lock()
	a.current = &sig
	a.mu.Unlock()
	return sig
}

// raise sets the slot the way alert.Service does, including the request's
// capture.
func (a *alertSlotFake) raise(ctx context.Context, kind domain.AlertKind, title, message string) {
	alert.Record(ctx, a.set(kind, title, message))
}
