// Package race runs the user's side of reading races: creating, joining and
// finishing races and keeping the current leaderboard snapshot.
//
// Manager operations never return errors. Failures of user-initiated writes
// are raised as error alerts; failures of leaderboard refreshes are logged
// and leave the previous snapshot in place. User-initiated writes run to
// completion and apply their result even when the caller's context ends.
package race

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/metrics"
	"github.com/heartmarshall/readrace/pkg/ctxutil"
)

// Fallback alert messages used when the remote error carries none.
const (
	MsgCreateFailed = "Could not create the race."
	MsgJoinFailed   = "Could not join the race."
	MsgFinishFailed = "Could not finish the race."
)

// Alert titles.
const (
	TitleCreated      = "Race created"
	TitleJoined       = "Joined the race"
	TitleWinner       = "🏆 You won the race!"
	TitleCompleted    = "Race completed"
	TitleCreateFailed = "Race not created"
	TitleJoinFailed   = "Could not join"
	TitleFinishFailed = "Race not finished"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type raceAPI interface {
	CreateRace(ctx context.Context, bookID int64) (int64, error)
	JoinRace(ctx context.Context, raceID int64) error
	GetRaceLeaderboard(ctx context.Context, raceID int64) ([]domain.LeaderboardEntry, error)
	FinishRace(ctx context.Context, raceID int64) (domain.FinishResult, error)
}

type alerter interface {
	Error(ctx context.Context, title, message string) domain.AlertSignal
	Success(ctx context.Context, title, message string) domain.AlertSignal
}

type rewarder interface {
	RecordRaceResult(ctx context.Context, won bool, xp int) (domain.UserStats, error)
}

type publisher interface {
	Publish(ctx context.Context, topic string, payload any)
}

// Rewards is the XP granted for finishing a race.
type Rewards struct {
	FinishXP   int
	WinBonusXP int
}

// For returns the XP for a finish.
func (r Rewards) For(won bool) int {
	if won {
		return r.FinishXP + r.WinBonusXP
	}
	return r.FinishXP
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// Manager owns the races known this session and the current leaderboard.
type Manager struct {
	mu          sync.Mutex
	races       map[int64]*domain.Race
	order       []int64
	leaderboard *domain.Leaderboard
	watched     int64

	api     raceAPI
	alerts  alerter
	rewards rewarder
	pub     publisher
	reward  Rewards
	log     *slog.Logger
	now     func() time.Time
}

// NewManager creates a Manager.
func NewManager(log *slog.Logger, api raceAPI, alerts alerter, rewards rewarder, pub publisher, reward Rewards) *Manager {
	return &Manager{
		races:   make(map[int64]*domain.Race),
		api:     api,
		alerts:  alerts,
		rewards: rewards,
		pub:     pub,
		reward:  reward,
		log:     log.With("service", "race"),
		now:     time.Now,
	}
}

// CreateRace starts a race over bookID. ok is false when the remote rejected
// or could not be reached; an error alert has been raised in that case.
func (m *Manager) CreateRace(ctx context.Context, bookID int64) (raceID int64, ok bool) {
	ctx = ctxutil.Detach(ctx)
	id, err := m.api.CreateRace(ctx, bookID)
	if err != nil {
		m.log.WarnContext(ctx, "create race failed",
			slog.Int64("book_id", bookID),
			slog.String("error", err.Error()),
		)
		m.alerts.Error(ctx, TitleCreateFailed, domain.UserMessage(err, MsgCreateFailed))
		return 0, false
	}

	race := m.apply(id, func(r *domain.Race) {
		r.BookID = bookID
		r.Status = domain.RaceStatusActive
	})
	m.pub.Publish(ctx, events.TopicRace, race)

	m.log.InfoContext(ctx, "race created", slog.Int64("race_id", id), slog.Int64("book_id", bookID))
	m.alerts.Success(ctx, TitleCreated, fmt.Sprintf("Race #%d is ready. Invite your friends!", id))
	return id, true
}

// JoinRace joins raceID. Whether the race can still be joined is decided by
// the remote.
func (m *Manager) JoinRace(ctx context.Context, raceID int64) bool {
	ctx = ctxutil.Detach(ctx)
	if err := m.api.JoinRace(ctx, raceID); err != nil {
		m.log.WarnContext(ctx, "join race failed",
			slog.Int64("race_id", raceID),
			slog.String("error", err.Error()),
		)
		m.alerts.Error(ctx, TitleJoinFailed, domain.UserMessage(err, MsgJoinFailed))
		return false
	}

	race := m.apply(raceID, func(r *domain.Race) {
		r.Joined = true
		if r.Status == "" {
			r.Status = domain.RaceStatusActive
		}
	})
	m.pub.Publish(ctx, events.TopicRace, race)

	m.log.InfoContext(ctx, "race joined", slog.Int64("race_id", raceID))
	m.alerts.Success(ctx, TitleJoined, fmt.Sprintf("You are in race #%d. Happy reading!", raceID))
	return true
}

// LoadLeaderboard replaces the leaderboard snapshot with the remote one.
// Failures leave the previous snapshot untouched.
func (m *Manager) LoadLeaderboard(ctx context.Context, raceID int64) {
	entries, err := m.api.GetRaceLeaderboard(ctx, raceID)
	if err != nil {
		metrics.LeaderboardRefreshes.WithLabelValues("error").Inc()
		m.log.DebugContext(ctx, "leaderboard refresh failed",
			slog.Int64("race_id", raceID),
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.LeaderboardRefreshes.WithLabelValues("ok").Inc()

	board := domain.Leaderboard{
		RaceID:    raceID,
		Entries:   slices.Clone(entries),
		FetchedAt: m.now(),
	}
	if board.Entries == nil {
		board.Entries = []domain.LeaderboardEntry{}
	}

	m.mu.Lock()
	m.leaderboard = &board
	m.mu.Unlock()

	m.pub.Publish(ctx, events.TopicLeaderboard, board)
}

// FinishRace reports the user's finish. On confirmation the race is marked
// finished, the reward is recorded and the leaderboard is refreshed; the
// returned result is nil when the finish was not confirmed. A race already
// finished this session is confirmed again without a second reward.
func (m *Manager) FinishRace(ctx context.Context, raceID int64) *domain.FinishResult {
	ctx = ctxutil.Detach(ctx)
	res, err := m.api.FinishRace(ctx, raceID)
	if err != nil {
		m.log.WarnContext(ctx, "finish race failed",
			slog.Int64("race_id", raceID),
			slog.String("error", err.Error()),
		)
		m.alerts.Error(ctx, TitleFinishFailed, domain.UserMessage(err, MsgFinishFailed))
		return nil
	}

	var repeat bool
	race := m.apply(raceID, func(r *domain.Race) {
		repeat = r.Status == domain.RaceStatusFinished
		r.Status = domain.RaceStatusFinished
	})

	xp := 0
	if repeat {
		m.log.InfoContext(ctx, "race already finished, reward not repeated", slog.Int64("race_id", raceID))
	} else {
		m.pub.Publish(ctx, events.TopicRace, race)
		xp = m.reward.For(res.IsWinner)
		if _, err := m.rewards.RecordRaceResult(ctx, res.IsWinner, xp); err != nil {
			m.log.WarnContext(ctx, "record race reward failed",
				slog.Int64("race_id", raceID),
				slog.String("error", err.Error()),
			)
		}
		m.log.InfoContext(ctx, "race finished",
			slog.Int64("race_id", raceID),
			slog.Bool("winner", res.IsWinner),
			slog.Int("xp", xp),
		)
	}

	if res.IsWinner {
		m.alerts.Success(ctx, TitleWinner, finishMessage("You finished first!", xp))
	} else {
		m.alerts.Success(ctx, TitleCompleted, finishMessage("You finished the race.", xp))
	}

	m.LoadLeaderboard(ctx, raceID)
	return &res
}

func finishMessage(text string, xp int) string {
	if xp == 0 {
		return text
	}
	return fmt.Sprintf("%s +%d XP", text, xp)
}

// apply mutates the race with id, creating it first when unknown, and
// returns a copy.
func (m *Manager) apply(id int64, mutate func(*domain.Race)) domain.Race {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.races[id]
	if !ok {
		r = &domain.Race{ID: id, CreatedAt: m.now()}
		m.races[id] = r
		m.order = append(m.order, id)
	}
	mutate(r)
	return *r
}

// Races returns the races known this session, oldest first.
func (m *Manager) Races() []domain.Race {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Race, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.races[id])
	}
	return out
}

// Leaderboard returns a copy of the current snapshot, or nil before the
// first successful load.
func (m *Manager) Leaderboard() *domain.Leaderboard {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.leaderboard == nil {
		return nil
	}
	board := *m.leaderboard
	board.Entries = slices.Clone(m.leaderboard.Entries)
	return &board
}

// Watch selects the race whose leaderboard the poller keeps fresh.
// A zero id stops watching.
func (m *Manager) Watch(raceID int64) {
	m.mu.Lock()
	m.watched = raceID
	m.mu.Unlock()
}

// Watched returns the watched race id.
func (m *Manager) Watched() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watched, m.watched != 0
}
