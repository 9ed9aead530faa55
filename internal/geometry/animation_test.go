package geometry

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeYawDelta(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "already short", in: 90, want: 90},
		{name: "long way right", in: 270, want: -90},
		{name: "long way left", in: -270, want: 90},
		{name: "full turn", in: 360, want: 0},
		{name: "multiple turns", in: 810, want: 90},
		{name: "boundary", in: 180, want: 180},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeYawDelta(tc.in); got != tc.want {
				t.Errorf("NormalizeYawDelta(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRecentreTakesShortestPath(t *testing.T) {
	cases := []struct {
		name      string
		startYaw  float64
		targetYaw float64
	}{
		{name: "across the seam forward", startYaw: 170, targetYaw: -170},
		{name: "across the seam backward", startYaw: -170, targetYaw: 170},
		{name: "half turn", startYaw: 0, targetYaw: 180},
		{name: "small swing", startYaw: 10, targetYaw: 35},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRecentre(tc.startYaw, 0, tc.targetYaw, 0)
			if r.PathLength() > 180 {
				t.Errorf("yaw path %v exceeds a half turn", r.PathLength())
			}
		})
	}
}

func TestRecentreEndpoints(t *testing.T) {
	r := NewRecentre(170, -5, -170, 20)

	yaw, pitch, done := r.At(0)
	if done {
		t.Error("animation done at t=0")
	}
	if yaw != 170 || pitch != -5 {
		t.Errorf("start frame = (%v, %v), want (170, -5)", yaw, pitch)
	}

	yaw, pitch, done = r.At(r.Duration)
	if !done {
		t.Error("animation not done at full duration")
	}
	// 170 + 20 = 190, the caller's orientation wraps naturally.
	if !almostEqual(math.Mod(yaw+360, 360), 190, 1e-9) || pitch != 20 {
		t.Errorf("end frame = (%v, %v), want yaw equivalent to -170 and pitch 20", yaw, pitch)
	}
}

func TestRecentreEaseOutDeceleration(t *testing.T) {
	r := NewRecentre(0, 0, 100, 0)

	firstHalf, _, _ := r.At(r.Duration / 2)
	if firstHalf <= 50 {
		t.Errorf("ease-out should cover more than half the distance in the first half, got %v", firstHalf)
	}

	// Monotonic progress.
	prev := -1.0
	for i := 0; i <= 10; i++ {
		yaw, _, _ := r.At(time.Duration(i) * r.Duration / 10)
		if yaw < prev {
			t.Fatalf("yaw regressed from %v to %v at step %d", prev, yaw, i)
		}
		prev = yaw
	}
}

func TestGestureClassification(t *testing.T) {
	cases := []struct {
		name  string
		moves [][2]float64
		click bool
	}{
		{name: "no movement", moves: nil, click: true},
		{name: "tiny jitter", moves: [][2]float64{{1, 1}, {1, 0}}, click: true},
		{name: "exactly at threshold", moves: [][2]float64{{3, 2}}, click: true},
		{name: "just over threshold", moves: [][2]float64{{3, 3}}, click: false},
		{name: "accumulated drag", moves: [][2]float64{{2, 0}, {2, 0}, {2, 0}}, click: false},
		{name: "negative deltas count", moves: [][2]float64{{-4, -4}}, click: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var g Gesture
			for _, m := range tc.moves {
				g.Move(m[0], m[1])
			}
			if got := g.IsClick(); got != tc.click {
				t.Errorf("IsClick() = %v, want %v", got, tc.click)
			}
		})
	}
}
