// Package app wires configuration, storage, the engine services and the
// local presentation API into one supervised process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/readrace/internal/adapter/remote"
	"github.com/heartmarshall/readrace/internal/auth"
	"github.com/heartmarshall/readrace/internal/config"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/service/alert"
	"github.com/heartmarshall/readrace/internal/service/notify"
	"github.com/heartmarshall/readrace/internal/service/progression"
	"github.com/heartmarshall/readrace/internal/service/progression/leveling"
	"github.com/heartmarshall/readrace/internal/service/race"
	"github.com/heartmarshall/readrace/internal/service/sharednotes"
	"github.com/heartmarshall/readrace/internal/transport/middleware"
	"github.com/heartmarshall/readrace/internal/transport/rest"
	"github.com/heartmarshall/readrace/pkg/ctxutil"
)

// Run is the application entry point. It blocks until ctx is cancelled or
// the supervisor gives up.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting readrace",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	userID := sessionUser(logger, cfg.Auth)
	if userID != uuid.Nil {
		ctx = ctxutil.WithUserID(ctx, userID)
	}

	store, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	bus := events.NewBus(logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Warn("close event bus", slog.String("error", err.Error()))
		}
	}()

	// --- Services ---
	alerts := alert.NewService(logger, bus)
	toasts := notify.NewQueue(logger, notify.RealClock(), cfg.Notify.Timing(), bus)

	stats := progression.NewStore(logger, store, toasts, bus,
		leveling.DefaultCatalog(), progression.ParseTimezone(cfg.Progression.Timezone))
	stats.Load(ctx)

	client := remote.NewClient(remote.Config{
		BaseURL:          cfg.Remote.BaseURL,
		Timeout:          cfg.Remote.Timeout,
		RateLimit:        cfg.Remote.RateLimit,
		RateBurst:        cfg.Remote.RateBurst,
		FailureThreshold: cfg.Remote.FailureThreshold,
		OpenTimeout:      cfg.Remote.OpenTimeout,
	}, logger)
	client.SetToken(cfg.Auth.SessionToken)

	races := race.NewManager(logger, client, alerts, stats, bus, race.Rewards{
		FinishXP:   cfg.Progression.RaceFinishXP,
		WinBonusXP: cfg.Progression.RaceWinBonusXP,
	})
	notes := sharednotes.NewSync(logger, client, alerts, bus)

	// --- Transport ---
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, time.Minute)
	router := rest.NewRouter(logger, rest.RouterConfig{
		CORS:    cfg.CORS,
		Limiter: limiter,
		UserID:  userID,
	}, rest.Handlers{
		Health:       rest.NewHealthHandler(store, BuildVersion()),
		Progression:  rest.NewProgressionHandler(stats, logger),
		Notification: rest.NewNotificationHandler(toasts, alerts),
		Race:         rest.NewRaceHandler(races, logger),
		Notes:        rest.NewNotesHandler(notes, logger),
		Events:       rest.NewEventsHandler(bus, cfg.CORS.Origins(), logger),
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// --- Supervision ---
	root, api, raceLayer := newSupervisor(logger, cfg.Server.ShutdownTimeout)
	api.Add(newHTTPService(server, cfg.Server.ShutdownTimeout))
	api.Add(limiter)
	raceLayer.Add(race.NewPoller(logger, races, cfg.Race.LeaderboardPollInterval))

	logger.Info("listening", slog.String("addr", server.Addr))
	err = root.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logger.Info("readrace stopped")
	return nil
}

// sessionUser reads the reader's id from the configured session token. A
// missing or unreadable token is logged and yields uuid.Nil.
func sessionUser(logger *slog.Logger, cfg config.AuthConfig) uuid.UUID {
	if cfg.SessionToken == "" {
		logger.Warn("no session token configured; remote calls will be anonymous")
		return uuid.Nil
	}

	s, err := auth.ParseSession(cfg.SessionToken)
	if err != nil {
		logger.Warn("session token unreadable", slog.String("error", err.Error()))
		return uuid.Nil
	}
	if s.Expired(time.Now()) {
		logger.Warn("session token expired", slog.Time("expires_at", s.ExpiresAt))
	}
	return s.UserID
}
