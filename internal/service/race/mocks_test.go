package race

import (
	"context"
	"sync"

	"github.com/heartmarshall/readrace/internal/domain"
)

var _ raceAPI = &raceAPIMock{}

type raceAPIMock struct {
	CreateRaceFunc         func(ctx context.Context, bookID int64) (int64, error)
	JoinRaceFunc           func(ctx context.Context, raceID int64) error
	GetRaceLeaderboardFunc func(ctx context.Context, raceID int64) ([]domain.LeaderboardEntry, error)
	FinishRaceFunc         func(ctx context.Context, raceID int64) (domain.FinishResult, error)

	calls struct {
		CreateRace         []struct{ BookID int64 }
		JoinRace           []struct{ RaceID int64 }
		GetRaceLeaderboard []struct{ RaceID int64 }
		FinishRace         []struct{ RaceID int64 }
	}
	lockCreateRace         sync.RWMutex
	lockJoinRace           sync.RWMutex
	lockGetRaceLeaderboard sync.RWMutex
	lockFinishRace         sync.RWMutex
}

func (mock *raceAPIMock) CreateRace(ctx context.Context, bookID int64) (int64, error) {
	if mock.CreateRaceFunc == nil {
		panic("raceAPIMock.CreateRaceFunc: method is nil but raceAPI.CreateRace was just called")
	}
	mock.lockCreateRace.Lock()
	mock.calls.CreateRace = append(mock.calls.CreateRace, struct{ BookID int64 }{BookID: bookID})
	mock.lockCreateRace.Unlock()
	return mock.CreateRaceFunc(ctx, bookID)
}

func (mock *raceAPIMock) CreateRaceCalls() []struct{ BookID int64 } {
	mock.lockCreateRace.RLock()
	calls := mock.calls.CreateRace
	mock.lockCreateRace.RUnlock()
	return calls
}

func (mock *raceAPIMock) JoinRace(ctx context.Context, raceID int64) error {
	if mock.JoinRaceFunc == nil {
		panic("raceAPIMock.JoinRaceFunc: method is nil but raceAPI.JoinRace was just called")
	}
	mock.lockJoinRace.Lock()
	mock.calls.JoinRace = append(mock.calls.JoinRace, struct{ RaceID int64 }{RaceID: raceID})
	mock.lockJoinRace.Unlock()
	return mock.JoinRaceFunc(ctx, raceID)
}

func (mock *raceAPIMock) JoinRaceCalls() []struct{ RaceID int64 } {
	mock.lockJoinRace.RLock()
	calls := mock.calls.JoinRace
	mock.lockJoinRace.RUnlock()
	return calls
}

func (mock *raceAPIMock) GetRaceLeaderboard(ctx context.Context, raceID int64) ([]domain.LeaderboardEntry, error) {
	if mock.GetRaceLeaderboardFunc == nil {
		panic("raceAPIMock.GetRaceLeaderboardFunc: method is nil but raceAPI.GetRaceLeaderboard was just called")
	}
	mock.lockGetRaceLeaderboard.Lock()
	mock.calls.GetRaceLeaderboard = append(mock.calls.GetRaceLeaderboard, struct{ RaceID int64 }{RaceID: raceID})
	mock.lockGetRaceLeaderboard.Unlock()
	return mock.GetRaceLeaderboardFunc(ctx, raceID)
}

func (mock *raceAPIMock) GetRaceLeaderboardCalls() []struct{ RaceID int64 } {
	mock.lockGetRaceLeaderboard.RLock()
	calls := mock.calls.GetRaceLeaderboard
	mock.lockGetRaceLeaderboard.RUnlock()
	return calls
}

func (mock *raceAPIMock) FinishRace(ctx context.Context, raceID int64) (domain.FinishResult, error) {
	if mock.FinishRaceFunc == nil {
		panic("raceAPIMock.FinishRaceFunc: method is nil but raceAPI.FinishRace was just called")
	}
	mock.lockFinishRace.Lock()
	mock.calls.FinishRace = append(mock.calls.FinishRace, struct{ RaceID int64 }{RaceID: raceID})
	mock.lockFinishRace.Unlock()
	return mock.FinishRaceFunc(ctx, raceID)
}

func (mock *raceAPIMock) FinishRaceCalls() []struct{ RaceID int64 } {
	mock.lockFinishRace.RLock()
	calls := mock.calls.FinishRace
	mock.lockFinishRace.RUnlock()
	return calls
}

// alertRecorder records raised alerts in order.
type alertRecorder struct {
	mu      sync.Mutex
	raised  []domain.AlertSignal
	onRaise func(domain.AlertSignal)
}

func (a *alertRecorder) raise(kind domain.AlertKind, title, message string) domain.AlertSignal {
	sig := domain.AlertSignal{Kind: kind, Title: title, Message: message}
	a.mu.Lock()
	a.raised = append(a.raised, sig)
	hook := a.onRaise
	a.mu.Unlock()
	if hook != nil {
		hook(sig)
	}
	return sig
}

func (a *alertRecorder) Error(_ context.Context, title, message string) domain.AlertSignal {
	return a.raise(domain.AlertError, title, message)
}

func (a *alertRecorder) Success(_ context.Context, title, message string) domain.AlertSignal {
	return a.raise(domain.AlertSuccess, title, message)
}

func (a *alertRecorder) all() []domain.AlertSignal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AlertSignal(nil), a.raised...)
}

var _ rewarder = &rewarderMock{}

type rewarderMock struct {
	RecordRaceResultFunc func(ctx context.Context, won bool, xp int) (domain.UserStats, error)

	calls struct {
		RecordRaceResult []struct {
			Won bool
			XP  int
		}
	}
	lockRecordRaceResult sync.RWMutex
}

func (mock *rewarderMock) RecordRaceResult(ctx context.Context, won bool, xp int) (domain.UserStats, error) {
	mock.lockRecordRaceResult.Lock()
	mock.calls.RecordRaceResult = append(mock.calls.RecordRaceResult, struct {
		Won bool
		XP  int
	}{Won: won, XP: xp})
	mock.lockRecordRaceResult.Unlock()
	if mock.RecordRaceResultFunc == nil {
		return domain.UserStats{}, nil
	}
	return mock.RecordRaceResultFunc(ctx, won, xp)
}

func (mock *rewarderMock) RecordRaceResultCalls() []struct {
	Won bool
	XP  int
} {
	mock.lockRecordRaceResult.RLock()
	calls := mock.calls.RecordRaceResult
	mock.lockRecordRaceResult.RUnlock()
	return calls
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
