package scene

import (
	"fmt"
	"math"

	"github.com/jLantxa/PathTracer/types"
)

// Exponent applied to every channel when gamma correction is enabled.
const CameraGamma = 1 / 2.2

var (
	worldUp  = types.Vec3{0, 1, 0}
	worldFwd = types.Vec3{0, 0, 1}
)

// A pinhole camera. It owns the surface that renderers write into.
type Camera struct {
	width  uint32
	height uint32

	// Field of view in radians.
	fov         float64
	aspectRatio float64

	// Eye position.
	position types.Vec3

	// Orthonormal basis: u is right, v is up and w is the facing direction.
	u, v, w types.Vec3

	surface *Surface

	gammaCorrection bool
}

// Create a camera at the origin looking down -z. The field of view is
// specified in degrees.
func NewCamera(width, height uint32, fov float64) *Camera {
	c := &Camera{
		fov:      degToRad(fov),
		position: types.Vec3{},
		u:        types.Vec3{1, 0, 0},
		v:        types.Vec3{0, 1, 0},
		w:        types.Vec3{0, 0, -1},
	}
	c.SetResolution(width, height)
	return c
}

// Create a camera at position looking towards facing.
func NewCameraAt(width, height uint32, fov float64, position, facing types.Vec3) *Camera {
	c := NewCamera(width, height, fov)
	c.position = position
	c.SetFacing(facing)
	return c
}

// Point the camera towards facing and rebuild its basis. The provisional
// up vector is the world up axis; the right vector is up x facing and the
// final up vector is facing x right.
func (c *Camera) SetFacing(facing types.Vec3) {
	w := facing.Normalize()
	if w.IsZero() {
		return
	}

	u := worldUp.Cross(w)
	if u.Len() < 1e-9 {
		// Looking straight up or down
		u = worldFwd.Cross(w)
	}
	c.u = u.Normalize()
	c.w = w
	c.v = c.w.Cross(c.u)
}

// Rotate the facing direction by yaw around the world up axis and then by
// pitch around the yawed right axis. Both rotations are composed into a
// single quaternion. Angles are in degrees; a positive pitch tilts the view
// upwards.
func (c *Camera) Orient(yaw, pitch float64) {
	yawQuat := types.QuatFromAxisAngle(worldUp, degToRad(yaw))
	right := worldUp.Cross(yawQuat.Rotate(c.w))
	if right.Len() < 1e-9 {
		right = yawQuat.Rotate(c.u)
	}
	pitchQuat := types.QuatFromAxisAngle(right, -degToRad(pitch))
	rotation := pitchQuat.Mul(yawQuat).Normalize()
	c.SetFacing(rotation.Rotate(c.w))
}

// Move the camera eye.
func (c *Camera) SetPosition(position types.Vec3) {
	c.position = position
}

// Change the output resolution. This reallocates the surface.
func (c *Camera) SetResolution(width, height uint32) {
	c.width = width
	c.height = height
	c.aspectRatio = 1.0
	if height != 0 {
		c.aspectRatio = float64(width) / float64(height)
	}
	c.surface = NewSurface(width, height)
}

// Enable or disable gamma correction in OnRenderFinished.
func (c *Camera) SetGammaCorrectionEnabled(enabled bool) {
	c.gammaCorrection = enabled
}

func (c *Camera) GammaCorrectionEnabled() bool {
	return c.gammaCorrection
}

func (c *Camera) Width() uint32 {
	return c.width
}

func (c *Camera) Height() uint32 {
	return c.height
}

// Get the field of view in degrees.
func (c *Camera) FOV() float64 {
	return radToDeg(c.fov)
}

// Get the field of view in radians.
func (c *Camera) FOVRad() float64 {
	return c.fov
}

func (c *Camera) AspectRatio() float64 {
	return c.aspectRatio
}

func (c *Camera) Position() types.Vec3 {
	return c.position
}

// Get the camera basis as (right, up, facing).
func (c *Camera) Basis() (types.Vec3, types.Vec3, types.Vec3) {
	return c.u, c.v, c.w
}

// Get the surface owned by this camera.
func (c *Camera) Surface() *Surface {
	return c.surface
}

// Get the primary ray through the center of pixel (i, j).
func (c *Camera) RayToPixel(i, j uint32) types.Ray {
	return c.RayThroughPoint(float64(i)+0.5, float64(j)+0.5)
}

// Get the primary ray through a continuous image-plane point where (0, 0) is
// the top-left corner of the image and (width, height) the bottom-right one.
// The right coordinate decreases as x grows.
func (c *Camera) RayThroughPoint(x, y float64) types.Ray {
	tanHalfFov := math.Tan(c.fov / 2)
	right := (1 - 2*x/float64(c.width)) * tanHalfFov
	up := (1 - 2*y/float64(c.height)) * tanHalfFov / c.aspectRatio
	dir := c.w.Add(c.u.Mul(right)).Add(c.v.Mul(up))
	return types.NewRay(c.position, dir)
}

// Apply post-processing to the rendered surface.
func (c *Camera) OnRenderFinished() {
	if c.gammaCorrection {
		c.surface.ApplyGammaCorrection(CameraGamma)
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf("camera(%dx%d, fov: %.1f, eye: %v, facing: %v)", c.width, c.height, c.FOV(), c.position, c.w)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
