package notify

import (
	"fmt"
	"time"
)

// Timing is the display schedule of one toast.
type Timing struct {
	// ShowDelay lets the enter transition render before the toast is visible.
	ShowDelay time.Duration
	// VisibleFor is how long the toast stays on screen.
	VisibleFor time.Duration
	// FadeOut lets the exit transition finish before the slot is cleared.
	FadeOut time.Duration
}

// DefaultTiming returns the presentation defaults.
func DefaultTiming() Timing {
	return Timing{
		ShowDelay:  50 * time.Millisecond,
		VisibleFor: 4 * time.Second,
		FadeOut:    300 * time.Millisecond,
	}
}

// Validate checks 0 < ShowDelay < VisibleFor and 0 < FadeOut < VisibleFor.
func (t Timing) Validate() error {
	if t.ShowDelay <= 0 {
		return fmt.Errorf("show delay must be positive")
	}
	if t.FadeOut <= 0 {
		return fmt.Errorf("fade out must be positive")
	}
	if t.ShowDelay >= t.VisibleFor {
		return fmt.Errorf("show delay (%s) must be shorter than visible duration (%s)", t.ShowDelay, t.VisibleFor)
	}
	if t.FadeOut >= t.VisibleFor {
		return fmt.Errorf("fade out (%s) must be shorter than visible duration (%s)", t.FadeOut, t.VisibleFor)
	}
	return nil
}
