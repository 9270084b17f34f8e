package alert

import (
	"context"
	"sync"

	"github.com/heartmarshall/readrace/internal/domain"
)

type captureKey struct{}

type capture struct {
	mu  sync.Mutex
	sig *domain.AlertSignal
}

// WithCapture returns a context under which every raised alert is also kept
// for the caller, independent of the shared slot. The returned func yields
// the last alert raised with ctx (or a context derived from it), or nil.
func WithCapture(ctx context.Context) (context.Context, func() *domain.AlertSignal) {
	c := &capture{}
	return context.WithValue(ctx, captureKey{}, c), func() *domain.AlertSignal {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.sig == nil {
			return nil
		}
		sig := *c.sig
		return &sig
	}
}

// Record keeps sig in the capture attached to ctx. It is a no-op without one.
func Record(ctx context.Context, sig domain.AlertSignal) {
	c, ok := ctx.Value(captureKey{}).(*capture)
	if !ok {
		return
	}
	c.mu.Lock()
	c.sig = &sig
	c.mu.Unlock()
}
