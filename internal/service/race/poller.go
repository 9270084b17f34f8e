package race

import (
	"context"
	"log/slog"
	"time"
)

type leaderboardSource interface {
	Watched() (int64, bool)
	LoadLeaderboard(ctx context.Context, raceID int64)
}

// Poller refreshes the watched race's leaderboard on an interval. It runs as
// a supervised service.
type Poller struct {
	src      leaderboardSource
	interval time.Duration
	log      *slog.Logger
}

// DefaultPollInterval is used when NewPoller gets a non-positive interval.
const DefaultPollInterval = 15 * time.Second

// NewPoller creates a Poller.
func NewPoller(log *slog.Logger, src leaderboardSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		src:      src,
		interval: interval,
		log:      log.With("service", "leaderboard-poller"),
	}
}

// Serve implements suture.Service.
func (p *Poller) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.DebugContext(ctx, "poller started", slog.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick refreshes the watched leaderboard once.
func (p *Poller) Tick(ctx context.Context) {
	id, ok := p.src.Watched()
	if !ok {
		return
	}
	p.src.LoadLeaderboard(ctx, id)
}

// String implements fmt.Stringer; suture uses it in log messages.
func (p *Poller) String() string {
	return "leaderboard-poller"
}
