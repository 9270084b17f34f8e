// Package leveling holds the pure progression rules: the level curve, XP
// awards, streak continuation and badge eligibility. Nothing here does I/O.
package leveling

import (
	"math"

	"github.com/heartmarshall/readrace/internal/domain"
)

// XPPerLevelStep scales the triangular level curve.
const XPPerLevelStep = 100

// MaxLevel caps the curve so thresholds stay well inside int range.
const MaxLevel = 10000

// ThresholdFor returns the total XP needed to reach level.
//
//	T(n) = XPPerLevelStep * n * (n-1) / 2   (T(1) = 0, T(2) = 100, T(3) = 300, ...)
func ThresholdFor(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return XPPerLevelStep * level * (level - 1) / 2
}

// LevelFor returns the level reached with xp experience points.
// It is a non-decreasing step function with LevelFor(0) == 1.
func LevelFor(xp int) int {
	if xp <= 0 {
		return 1
	}

	// Invert T(n) <= xp: n = floor((1 + sqrt(1 + 8*xp/step)) / 2), then
	// correct the float estimate against the integer thresholds.
	n := int((1 + math.Sqrt(1+8*float64(xp)/XPPerLevelStep)) / 2)
	n = min(max(n, 1), MaxLevel)
	for n > 1 && ThresholdFor(n) > xp {
		n--
	}
	for n < MaxLevel && ThresholdFor(n+1) <= xp {
		n++
	}
	return n
}

// Progress reports xp's position inside its level.
func Progress(xp int) domain.LevelProgress {
	level := LevelFor(xp)
	floor := ThresholdFor(level)
	p := domain.LevelProgress{
		Level:     level,
		IntoLevel: max(xp, 0) - floor,
	}
	if level < MaxLevel {
		p.ToNextLevel = ThresholdFor(level+1) - max(xp, 0)
	}
	return p
}
