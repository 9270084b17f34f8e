package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/readrace/internal/config"
	"github.com/heartmarshall/readrace/internal/events"
	"github.com/heartmarshall/readrace/internal/service/notify"
	"github.com/heartmarshall/readrace/internal/service/progression"
	"github.com/heartmarshall/readrace/internal/service/progression/leveling"
)

// ResetProgression loads configuration, opens the state store and resets the
// persisted progression snapshot.
func ResetProgression(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := NewLogger(cfg.Log)

	store, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return resetProgression(ctx, logger, store, cfg.Progression)
}

func resetProgression(ctx context.Context, logger *slog.Logger, store stateStore, cfg config.ProgressionConfig) error {
	toasts := notify.NewQueue(logger, notify.RealClock(), notify.DefaultTiming(), events.Discard{})
	stats := progression.NewStore(logger, store, toasts, events.Discard{},
		leveling.DefaultCatalog(), progression.ParseTimezone(cfg.Timezone))

	before := stats.Load(ctx)
	if _, err := stats.Reset(ctx); err != nil {
		return fmt.Errorf("reset progression: %w", err)
	}

	logger.Info("progression reset",
		slog.Int("previous_xp", before.ExperiencePoints),
		slog.Int("previous_level", before.Level),
		slog.Int("previous_streak", before.StreakDays),
		slog.Int("badges_kept", len(stats.View().Unlocked)),
	)
	return nil
}
