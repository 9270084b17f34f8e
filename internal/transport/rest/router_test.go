package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/readrace/internal/config"
	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/service/notify"
	"github.com/heartmarshall/readrace/internal/service/sharednotes"
	"github.com/heartmarshall/readrace/internal/transport/middleware"
)

type fixture struct {
	progression *progressionStoreMock
	races       *raceManagerMock
	notes       *notesSyncMock
	queue       *toastQueueFake
	alerts      *alertSlotFake
	pinger      *storePingerMock
	bus         *events.Bus
	limiter     *middleware.RateLimiter

	handler http.Handler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

func newFixtureWith(t *testing.T, limiter *middleware.RateLimiter) *fixture {
	t.Helper()

	log := discardLogger()
	f := &fixture{
		progression: &progressionStoreMock{},
		races:       &raceManagerMock{},
		notes:       &notesSyncMock{},
		queue:       &toastQueueFake{},
		alerts:      &alertSlotFake{},
		pinger:      &storePingerMock{},
		bus:         events.NewBus(log),
		limiter:     limiter,
	}
	t.Cleanup(func() { _ = f.bus.Close() })

	cors := config.CORSConfig{
		AllowedOrigins: "http://localhost:5173",
		AllowedMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowedHeaders: "Content-Type",
		MaxAge:         600,
	}
	f.handler = NewRouter(log, RouterConfig{CORS: cors, Limiter: limiter}, Handlers{
		Health:       NewHealthHandler(f.pinger, "test"),
		Progression:  NewProgressionHandler(f.progression, log),
		Notification: NewNotificationHandler(f.queue, f.alerts),
		Race:         NewRaceHandler(f.races, log),
		Notes:        NewNotesHandler(f.notes, log),
		Events:       NewEventsHandler(f.bus, cors.Origins(), log),
	})
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "127.0.0.1:50000"
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(http.MethodGet, "/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", live.Status)
	assert.Equal(t, "test", live.Version)
	assert.False(t, live.Timestamp.IsZero())

	rec = f.do(http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", ready.Components["store"].Status)
	assert.NotEmpty(t, ready.Components["store"].Latency)

	f.pinger.err = errors.New("badger closed")
	rec = f.do(http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	down := decode[HealthResponse](t, rec)
	assert.Equal(t, "down", down.Status)
	assert.Equal(t, "down", down.Components["store"].Status)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	rec := newFixture(t).do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(http.MethodGet, "/live", "")
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	req := httptest.NewRequest(http.MethodOptions, "/v1/races", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitOnlyOnAPI(t *testing.T) {
	t.Parallel()

	f := newFixtureWith(t, middleware.NewRateLimiter(0.001, 1, time.Minute))

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/progression", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodGet, "/v1/progression", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/live", "").Code)
}

// ---------------------------------------------------------------------------
// Progression
// ---------------------------------------------------------------------------

func TestProgression_Get(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.progression.ViewFunc = func() domain.ProgressionView {
		return domain.ProgressionView{
			Stats:    domain.UserStats{ExperiencePoints: 150, Level: 2},
			Unlocked: []string{"first_page"},
		}
	}

	rec := f.do(http.MethodGet, "/v1/progression", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[domain.ProgressionView](t, rec)
	assert.Equal(t, 150, view.Stats.ExperiencePoints)
	assert.Equal(t, 2, view.Stats.Level)
	assert.Equal(t, []string{"first_page"}, view.Unlocked)
}

func TestProgression_AwardXP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCalls  int
	}{
		{"ok", `{"amount":25}`, nil, http.StatusOK, 1},
		{"rejected amount", `{"amount":0}`, domain.NewValidationError("amount", "must be positive"), http.StatusBadRequest, 1},
		{"persist failure", `{"amount":5}`, errors.New("badger: write failed"), http.StatusInternalServerError, 1},
		{"malformed body", `{"amount":`, nil, http.StatusBadRequest, 0},
		{"unknown field", `{"xp":5}`, nil, http.StatusBadRequest, 0},
		{"empty body", ``, nil, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.progression.AwardXPFunc = func(_ context.Context, amount int) (domain.UserStats, error) {
				return domain.UserStats{ExperiencePoints: amount}, tt.err
			}

			rec := f.do(http.MethodPost, "/v1/progression/xp", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Len(t, f.progression.AwardXPCalls(), tt.wantCalls)
		})
	}
}

func TestProgression_RecordActivity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var gotXP int
	f.progression.RecordActivityFunc = func(_ context.Context, at time.Time, xp int) (domain.UserStats, error) {
		gotXP = xp
		if at.IsZero() {
			t.Error("activity time not set")
		}
		return domain.UserStats{}, nil
	}

	rec := f.do(http.MethodPost, "/v1/progression/activity", `{"xp":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, gotXP)
}

func TestProgression_Title(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.progression.SelectTitleFunc = func(_ context.Context, id string) (domain.Badge, error) {
		if id != "racer" {
			return domain.Badge{}, domain.NewValidationError("badgeId", "badge is not unlocked")
		}
		return domain.Badge{ID: id}, nil
	}
	cleared := false
	f.progression.ClearTitleFunc = func(context.Context) error {
		cleared = true
		return nil
	}

	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/v1/progression/title", `{"badgeId":"racer"}`).Code)

	rec := f.do(http.MethodPut, "/v1/progression/title", `{"badgeId":"champion"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "badge is not unlocked")

	rec = f.do(http.MethodPut, "/v1/progression/title", `{"badgeId":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "badgeId: required")

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/v1/progression/title", "").Code)
	assert.True(t, cleared)
	assert.Len(t, f.progression.SelectTitleCalls(), 2)
}

// ---------------------------------------------------------------------------
// Notification and alert
// ---------------------------------------------------------------------------

func TestNotification(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.queue.state = notify.State{
		Phase: notify.PhaseVisible,
		Event: &domain.BadgeToastEvent{BadgeID: "streak_3", DisplayName: "On a Roll"},
	}
	f.queue.dismissed = true

	rec := f.do(http.MethodGet, "/v1/notification", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phase":"visible"`)
	assert.Contains(t, rec.Body.String(), `"badgeId":"streak_3"`)

	rec = f.do(http.MethodPost, "/v1/notification/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dismissed":true}`, rec.Body.String())
	assert.Equal(t, 1, f.queue.calls)
}

func TestAlert_GetAndClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(http.MethodGet, "/v1/alert", "")
	assert.JSONEq(t, `{"alert":null}`, rec.Body.String())

	f.alerts.set(domain.AlertError, "Could not join", "already joined")
	got := decode[alertResponse](t, f.do(http.MethodGet, "/v1/alert", ""))
	require.NotNil(t, got.Alert)
	assert.Equal(t, "already joined", got.Alert.Message)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/v1/alert", "").Code)
	assert.Nil(t, f.alerts.Current())
}

// ---------------------------------------------------------------------------
// Races
// ---------------------------------------------------------------------------

func TestRace_Create(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.races.CreateRaceFunc = func(ctx context.Context, bookID int64) (int64, bool) {
		if bookID == 42 {
			return 7, true
		}
		f.alerts.raise(ctx, domain.AlertError, "Race not created", "book is not available")
		return 0, false
	}

	rec := f.do(http.MethodPost, "/v1/races", `{"bookId":42}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"raceId":7}`, rec.Body.String())

	rec = f.do(http.MethodPost, "/v1/races", `{"bookId":43}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "book is not available", resp.Error)
	require.NotNil(t, resp.Alert)
	assert.Equal(t, "Race not created", resp.Alert.Title)

	rec = f.do(http.MethodPost, "/v1/races", `{"bookId":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookId: must be positive")
}

func TestRace_JoinAndFinish(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.races.JoinRaceFunc = func(_ context.Context, id int64) bool { return id == 7 }
	f.races.FinishRaceFunc = func(_ context.Context, id int64) *domain.FinishResult {
		if id != 7 {
			return nil
		}
		return &domain.FinishResult{IsWinner: true}
	}

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/v1/races/7/join", "").Code)

	rec := f.do(http.MethodPost, "/v1/races/8/join", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Could not join the race.", decode[errorResponse](t, rec).Error)

	rec = f.do(http.MethodPost, "/v1/races/7/finish", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isWinner":true}`, rec.Body.String())

	assert.Equal(t, http.StatusBadGateway, f.do(http.MethodPost, "/v1/races/9/finish", "").Code)
}

func TestRace_FailureReportsOwnAlert(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.races.FinishRaceFunc = func(ctx context.Context, _ int64) *domain.FinishResult {
		f.alerts.raise(ctx, domain.AlertError, "Race not finished", "race is closed")
		// Another operation replaces the shared slot before the response is written.
		f.alerts.set(domain.AlertSuccess, "Joined the race", "You are in race #8.")
		return nil
	}

	rec := f.do(http.MethodPost, "/v1/races/7/finish", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "race is closed", resp.Error)
	require.NotNil(t, resp.Alert)
	assert.Equal(t, "Race not finished", resp.Alert.Title)
	assert.Equal(t, "Joined the race", f.alerts.Current().Title)
}

func TestRace_InvalidID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, path := range []string{"/v1/races/abc/join", "/v1/races/0/finish", "/v1/races/-3/watch"} {
		method := http.MethodPost
		if strings.HasSuffix(path, "/watch") {
			method = http.MethodPut
		}
		assert.Equal(t, http.StatusBadRequest, f.do(method, path, "").Code, path)
	}
}

func TestRace_Leaderboard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/races/7/leaderboard", "").Code)

	var board *domain.Leaderboard
	f.races.LeaderboardFunc = func() *domain.Leaderboard { return board }
	f.races.LoadLeaderboardFunc = func(_ context.Context, id int64) {
		board = &domain.Leaderboard{RaceID: id, Entries: []domain.LeaderboardEntry{
			{RaceID: id, UserID: "u2", Rank: 1, Progress: 0.9},
			{RaceID: id, UserID: "u1", Rank: 2, Progress: 0.4},
		}}
	}

	rec := f.do(http.MethodPost, "/v1/races/7/leaderboard/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.Leaderboard](t, rec)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "u2", got.Entries[0].UserID)
	assert.Equal(t, []int64{7}, f.races.LoadLeaderboardCalls())

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/races/7/leaderboard", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/races/8/leaderboard", "").Code)
}

func TestRace_WatchAndList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.races.RacesFunc = func() []domain.Race {
		return []domain.Race{{ID: 7, BookID: 42, Status: domain.RaceStatusActive, Joined: true}}
	}

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPut, "/v1/races/7/watch", "").Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/v1/races/watch", "").Code)
	assert.Equal(t, []int64{7, 0}, f.races.WatchCalls())

	rec := f.do(http.MethodGet, "/v1/races", "")
	require.Equal(t, http.StatusOK, rec.Code)
	races := decode[[]domain.Race](t, rec)
	require.Len(t, races, 1)
	assert.True(t, races[0].Joined)
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

func TestNotes_ToggleShared(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.notes.ToggleVisibilityFunc = func(ctx context.Context, id int64) *bool {
		if id != 3 {
			f.alerts.raise(ctx, domain.AlertError, "Visibility not changed", "note belongs to another user")
			return nil
		}
		shared := true
		return &shared
	}

	rec := f.do(http.MethodPost, "/v1/notes/3/toggle-shared", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isShared":true}`, rec.Body.String())

	rec = f.do(http.MethodPost, "/v1/notes/4/toggle-shared", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "note belongs to another user", decode[errorResponse](t, rec).Error)
}

func TestNotes_ReplaceAndList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	body := `[{"id":1,"bookId":42,"location":"p.12","text":"good line","isShared":false,"createdAt":"2026-05-01T10:00:00Z"}]`
	rec := f.do(http.MethodPut, "/v1/notes", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.notes.replaced)

	notes := decode[[]domain.Note](t, f.do(http.MethodGet, "/v1/notes", ""))
	require.Len(t, notes, 1)
	assert.Equal(t, "p.12", notes[0].Location)
}

func TestNotes_SharedNotes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/books/42/shared-notes", "").Code)

	var snap *sharednotes.SharedSnapshot
	f.notes.SharedNotesFunc = func() *sharednotes.SharedSnapshot { return snap }
	f.notes.LoadSharedNotesFunc = func(_ context.Context, bookID int64) {
		snap = &sharednotes.SharedSnapshot{BookID: bookID, Notes: []domain.SharedNote{
			{Note: domain.Note{ID: 9, BookID: bookID, Text: fmt.Sprintf("from book %d", bookID)}, AuthorID: "u2"},
		}}
	}

	rec := f.do(http.MethodPost, "/v1/books/42/shared-notes/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]domain.SharedNote](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "from book 42", got[0].Text)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/books/42/shared-notes", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/books/43/shared-notes", "").Code)
}
