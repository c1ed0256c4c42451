package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// MoveDir identifies a translation direction relative to the camera's
// current basis.
type MoveDir int

const (
	MoveForward MoveDir = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

// ControlEvent is a discrete camera control input. Unknown event types
// are ignored by Camera.Apply.
type ControlEvent interface {
	controlEvent()
}

// MoveEvent translates the camera along one of its basis vectors by its
// configured step.
type MoveEvent struct {
	Dir MoveDir
}

// RotateEvent adjusts the camera orientation. Pitch is clamped so the
// view can never flip past vertical.
type RotateEvent struct {
	DeltaPitch float64
	DeltaYaw   float64
}

// ZoomEvent narrows (negative) or widens (positive) the field of view
// within fixed bounds.
type ZoomEvent struct {
	Delta float64
}

// BirdViewEvent snaps the camera to a fixed pose directly above the
// scene origin looking straight down. The next move or rotate event
// returns the camera to free flight.
type BirdViewEvent struct{}

func (MoveEvent) controlEvent()     {}
func (RotateEvent) controlEvent()   {}
func (ZoomEvent) controlEvent()     {}
func (BirdViewEvent) controlEvent() {}

// Pitch is clamped short of straight up/down to keep the view basis
// well defined.
const maxPitch = math.Pi/2 - 0.01

// FOV zoom bounds in radians.
const (
	minFOV = math.Pi / 12
	maxFOV = math.Pi * 2 / 3
)

const birdViewHeight = 30.0

// Camera represents the free-flying scene camera. Orientation is
// yaw/pitch Euler angles; projection is a standard perspective
// transform. View and projection matrices are cached and recomputed
// lazily when state changes.
type Camera struct {
	Position math3d.Vec3
	Pitch    float64 // rotation around X (look up/down), clamped
	Yaw      float64 // rotation around Y (look left/right)

	FOV         float64 // vertical field of view in radians
	AspectRatio float64
	Near        float64
	Far         float64

	// MoveStep is the distance one MoveEvent travels.
	MoveStep float64

	birdView bool

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera with default settings.
func NewCamera() *Camera {
	return &Camera{
		Position:      math3d.V3(0, 2, 18),
		FOV:           math.Pi / 4,
		AspectRatio:   4.0 / 3.0,
		Near:          0.1,
		Far:           1000,
		MoveStep:      0.5,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// Apply mutates the camera in response to one control event.
// Events of unknown type are ignored.
func (c *Camera) Apply(ev ControlEvent) {
	switch ev := ev.(type) {
	case MoveEvent:
		c.birdView = false
		switch ev.Dir {
		case MoveForward:
			c.Position = c.Position.Add(c.Forward().Scale(c.MoveStep))
		case MoveBack:
			c.Position = c.Position.Sub(c.Forward().Scale(c.MoveStep))
		case MoveLeft:
			c.Position = c.Position.Sub(c.Right().Scale(c.MoveStep))
		case MoveRight:
			c.Position = c.Position.Add(c.Right().Scale(c.MoveStep))
		case MoveUp:
			c.Position = c.Position.Add(math3d.Up().Scale(c.MoveStep))
		case MoveDown:
			c.Position = c.Position.Sub(math3d.Up().Scale(c.MoveStep))
		default:
			return
		}
		c.viewDirty = true

	case RotateEvent:
		c.birdView = false
		c.Pitch = math3d.Clamp(c.Pitch+ev.DeltaPitch, -maxPitch, maxPitch)
		c.Yaw += ev.DeltaYaw
		c.viewDirty = true

	case ZoomEvent:
		c.FOV = math3d.Clamp(c.FOV+ev.Delta, minFOV, maxFOV)
		c.projDirty = true

	case BirdViewEvent:
		c.birdView = true
		c.Position = math3d.V3(0, birdViewHeight, 0)
		c.Yaw = 0
		c.Pitch = -maxPitch
		c.viewDirty = true
	}
}

// BirdView reports whether the camera is in the overhead pose.
func (c *Camera) BirdView() bool {
	return c.birdView
}

// Forward returns the viewing direction (-Z in camera space rotated by
// yaw and pitch).
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the camera's right direction.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the camera's up direction.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians, clamped to the
// zoom bounds.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = math3d.Clamp(fov, minFOV, maxFOV)
	c.projDirty = true
}

// SetAspectRatio sets the projection aspect ratio (width/height).
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// LookAt orients the camera toward a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math3d.Clamp(math.Asin(dir.Y), -maxPitch, maxPitch)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.viewDirty = true
}

// ViewMatrix returns the view matrix, recomputing it if camera state
// changed since the last call.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		// View = R(-pitch) * R(-yaw) * T(-position)
		rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
		c.viewProjDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.viewProjDirty = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined projection * view matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	if c.viewProjDirty {
		c.viewProjMatrix = proj.Mul(view)
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}
