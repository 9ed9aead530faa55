package geometry

import (
	"math"
	"time"
)

// RecentreDuration is how long the camera takes to swing onto a hotspot.
const RecentreDuration = 400 * time.Millisecond

// ClickThresholdPx is the cumulative pointer movement below which a
// pointer-down/up pair counts as a click rather than a drag.
const ClickThresholdPx = 5

// NormalizeYawDelta wraps a yaw difference into [-180, 180] so
// interpolation always takes the shortest angular path.
func NormalizeYawDelta(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

// Recentre is the ease-out camera swing toward a hotspot. It is sampled
// per frame; any direct user rotation simply overwrites the same
// orientation fields, so no cancellation token is needed; last writer
// wins.
type Recentre struct {
	StartYaw, StartPitch   float64
	TargetYaw, TargetPitch float64
	Duration               time.Duration

	dYaw, dPitch float64
}

// NewRecentre builds the animation from the current orientation to the
// target, precomputing the shortest-path yaw delta.
func NewRecentre(startYaw, startPitch, targetYaw, targetPitch float64) Recentre {
	return Recentre{
		StartYaw:    startYaw,
		StartPitch:  startPitch,
		TargetYaw:   targetYaw,
		TargetPitch: targetPitch,
		Duration:    RecentreDuration,
		dYaw:        NormalizeYawDelta(targetYaw - startYaw),
		dPitch:      targetPitch - startPitch,
	}
}

// At samples the animation at the given elapsed time using an ease-out
// cubic curve. done is true once the target orientation is reached.
func (r Recentre) At(elapsed time.Duration) (yaw, pitch float64, done bool) {
	t := float64(elapsed) / float64(r.Duration)
	if t >= 1 {
		return r.StartYaw + r.dYaw, r.TargetPitch, true
	}
	if t < 0 {
		t = 0
	}
	ease := 1 - math.Pow(1-t, 3)
	return r.StartYaw + r.dYaw*ease, r.StartPitch + r.dPitch*ease, false
}

// PathLength returns the total angular distance the yaw travels. Always
// at most 180 degrees.
func (r Recentre) PathLength() float64 {
	return math.Abs(r.dYaw)
}

// Gesture classifies a pointer-down/move/up sequence as a click or a
// drag. Movement accumulates as |dx| + |dy| per move event.
type Gesture struct {
	total float64
}

// Move records one pointer movement.
func (g *Gesture) Move(dx, dy float64) {
	g.total += math.Abs(dx) + math.Abs(dy)
}

// IsClick reports whether the gesture stayed under the click threshold and
// is eligible to open a placement popup.
func (g *Gesture) IsClick() bool {
	return g.total <= ClickThresholdPx
}
