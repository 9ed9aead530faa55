// Package geometry holds the angular math for the panorama viewing sphere:
// converting screen clicks to yaw/pitch, projecting hotspots back to screen
// coordinates, edge indicators for off-screen markers, and the camera
// recentre animation.
//
// Conventions: yaw is the horizontal angle in degrees measured by
// atan2(z, x); pitch is the elevation in degrees measured by asin(y). The
// viewer sits at the centre of a unit sphere; the camera is a standard
// perspective camera with a vertical field of view.
package geometry

import "math"

const (
	// MarginPx is how far outside the viewport a projected hotspot may sit
	// and still count as on-screen.
	MarginPx = 20
	// EdgePadPx keeps edge indicators clear of the viewport border.
	EdgePadPx = 36
	// MinFOV and MaxFOV bound the zoom range in degrees.
	MinFOV = 30
	MaxFOV = 120
	// MaxPitch bounds camera elevation so the view cannot flip over the
	// poles.
	MaxPitch = 85
	// RotateSpeed converts dragged pixels to degrees of rotation.
	RotateSpeed = 0.2
	// ZoomSpeed converts wheel delta to degrees of field of view.
	ZoomSpeed = 0.05
)

// Vec3 is a three-component vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) normalize() Vec3 {
	l := math.Sqrt(v.dot(v))
	if l == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// Round1 rounds to one decimal place, the precision hotspot coordinates
// are stored at.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DirectionFromAngles converts yaw/pitch in degrees to a unit direction
// vector on the viewing sphere.
func DirectionFromAngles(yaw, pitch float64) Vec3 {
	phi := degToRad(90 - pitch)
	theta := degToRad(yaw)
	return Vec3{
		X: math.Sin(phi) * math.Cos(theta),
		Y: math.Cos(phi),
		Z: math.Sin(phi) * math.Sin(theta),
	}
}

// AnglesFromDirection converts a direction vector back to yaw/pitch in
// degrees.
func AnglesFromDirection(dir Vec3) (yaw, pitch float64) {
	d := dir.normalize()
	yaw = radToDeg(math.Atan2(d.Z, d.X))
	pitch = radToDeg(math.Asin(d.Y))
	return yaw, pitch
}

// Camera is the live viewing state: orientation, zoom, and viewport size.
type Camera struct {
	Yaw    float64 // degrees
	Pitch  float64 // degrees
	FOV    float64 // vertical field of view, degrees
	Width  float64 // viewport width, px
	Height float64 // viewport height, px
}

// NewCamera returns a camera with the default field of view.
func NewCamera(width, height float64) Camera {
	return Camera{FOV: 75, Width: width, Height: height}
}

// Rotate applies a pointer drag of (dx, dy) pixels, clamping pitch.
func (c *Camera) Rotate(dx, dy float64) {
	c.Yaw -= dx * RotateSpeed
	c.Pitch = clamp(c.Pitch+dy*RotateSpeed, -MaxPitch, MaxPitch)
}

// Zoom applies a wheel delta, clamping the field of view.
func (c *Camera) Zoom(delta float64) {
	c.FOV = clamp(c.FOV+delta*ZoomSpeed, MinFOV, MaxFOV)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// basis returns the camera's right, up, and backward axes in world space.
// The camera looks along -backward, built the way a look-at matrix with a
// world up of +Y is.
func (c Camera) basis() (right, up, backward Vec3) {
	forward := DirectionFromAngles(c.Yaw, c.Pitch)
	backward = Vec3{X: -forward.X, Y: -forward.Y, Z: -forward.Z}
	worldUp := Vec3{Y: 1}
	right = worldUp.cross(backward).normalize()
	up = backward.cross(right)
	return right, up, backward
}

// ScreenToYawPitch casts a ray from the camera through the given screen
// point and returns where it meets the viewing sphere, as yaw/pitch in
// degrees rounded to one decimal place. The mapping is deterministic: the
// same screen point at the same camera orientation always yields the same
// coordinates.
func (c Camera) ScreenToYawPitch(px, py float64) (yaw, pitch float64) {
	ndcX := (px/c.Width)*2 - 1
	ndcY := -(py/c.Height)*2 + 1

	tanHalf := math.Tan(degToRad(c.FOV) / 2)
	aspect := c.Width / c.Height

	right, up, backward := c.basis()
	// Camera-space ray direction for the NDC point, then into world space.
	cx := ndcX * aspect * tanHalf
	cy := ndcY * tanHalf
	dir := Vec3{
		X: cx*right.X + cy*up.X - backward.X,
		Y: cx*right.Y + cy*up.Y - backward.Y,
		Z: cx*right.Z + cy*up.Z - backward.Z,
	}

	yaw, pitch = AnglesFromDirection(dir)
	return Round1(yaw), Round1(pitch)
}

// Point is a screen position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// project maps a sphere point at (yaw, pitch) through the camera to raw
// screen coordinates. behind reports a point behind the camera plane; its
// coordinates are still returned (perspective-divided through the negative
// depth, so mirrored) because the edge-indicator math builds on them.
func (c Camera) project(yaw, pitch float64) (p Point, behind bool) {
	right, up, backward := c.basis()
	world := DirectionFromAngles(yaw, pitch)

	camX := world.dot(right)
	camY := world.dot(up)
	camZ := -world.dot(backward) // positive in front of the camera

	w := camZ
	if math.Abs(w) < 1e-9 {
		w = 1e-9
	}

	tanHalf := math.Tan(degToRad(c.FOV) / 2)
	aspect := c.Width / c.Height
	ndcX := camX / (w * tanHalf * aspect)
	ndcY := camY / (w * tanHalf)

	p.X = (ndcX + 1) / 2 * c.Width
	p.Y = (-ndcY + 1) / 2 * c.Height
	return p, camZ < 0
}

// ScreenPosition projects a sphere point to viewport pixels. ok is false
// when the point is behind the camera or outside the viewport beyond the
// margin; such hotspots are not drawn as in-view markers.
func (c Camera) ScreenPosition(yaw, pitch float64) (Point, bool) {
	p, behind := c.project(yaw, pitch)
	if behind {
		return Point{}, false
	}
	if p.X < -MarginPx || p.X > c.Width+MarginPx || p.Y < -MarginPx || p.Y > c.Height+MarginPx {
		return Point{}, false
	}
	return p, true
}

// EdgeIndicator is a pointer clamped to the viewport edge for a hotspot
// that is not currently on-screen. AngleDeg is the bearing of the arrow in
// degrees, 0 pointing right, increasing clockwise in screen space.
type EdgeIndicator struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AngleDeg float64 `json:"angle"`
}

// EdgeIndicatorFor computes the edge pointer for an off-screen hotspot, or
// ok=false if the hotspot is on-screen and needs no indicator. For points
// behind the camera the projected position is mirrored first so the arrow
// points the short way around rather than through the back of the head.
func (c Camera) EdgeIndicatorFor(yaw, pitch float64) (EdgeIndicator, bool) {
	p, behind := c.project(yaw, pitch)

	onScreen := !behind &&
		p.X >= -MarginPx && p.X <= c.Width+MarginPx &&
		p.Y >= -MarginPx && p.Y <= c.Height+MarginPx
	if onScreen {
		return EdgeIndicator{}, false
	}

	if behind {
		p.X = c.Width - p.X
		p.Y = c.Height - p.Y
	}

	cx := c.Width / 2
	cy := c.Height / 2
	dx := p.X - cx
	dy := p.Y - cy
	angle := math.Atan2(dy, dx)

	maxX := cx - EdgePadPx
	maxY := cy - EdgePadPx

	scaleX := 1000.0
	if math.Abs(dx) > 0.001 {
		scaleX = maxX / math.Abs(dx)
	}
	scaleY := 1000.0
	if math.Abs(dy) > 0.001 {
		scaleY = maxY / math.Abs(dy)
	}
	scale := math.Min(math.Min(scaleX, scaleY), 1)

	return EdgeIndicator{
		X:        cx + dx*scale,
		Y:        cy + dy*scale,
		AngleDeg: radToDeg(angle),
	}, true
}
