package camera

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/chewxy/math32"
)

// maxElevation keeps orbiting just short of the poles, where the view matrix degenerates.
const maxElevation = 1.55

// minDistance is the closest Zoom brings the camera to its target.
const minDistance = 0.01

type cameraImpl struct {
	position [3]float32
	target   [3]float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	dirty                bool
	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera holds a perspective camera looking from a position at a target, and computes
// its view and projection matrices on demand. Matrices are column-major and map depth
// to GL clip space.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetPosition moves the camera without changing its target.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at point without moving the camera.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// SetFov sets the vertical field of view in radians.
	SetFov(fov float32)

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio (width / height).
	SetAspect(aspect float32)

	// SetViewport sets the aspect ratio from a framebuffer size. A zero height is ignored.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	SetViewport(width, height int)

	// Near returns the near clipping plane distance.
	Near() float32

	// SetNear sets the near clipping plane distance.
	SetNear(near float32)

	// Far returns the far clipping plane distance.
	Far() float32

	// SetFar sets the far clipping plane distance.
	SetFar(far float32)

	// Orbit rotates the camera around its target. The elevation is clamped short of
	// straight up and straight down.
	//
	// Parameters:
	//   - dAzimuth: change of the horizontal angle in radians
	//   - dElevation: change of the vertical angle in radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom moves the camera towards its target by delta world units, stopping short of it.
	//
	// Parameters:
	//   - delta: distance to move, negative moves away
	Zoom(delta float32)

	// Pan translates both position and target along the camera's right and up axes.
	//
	// Parameters:
	//   - right: distance along the right axis
	//   - up: distance along the up axis
	Pan(right, up float32)

	// ViewMatrix returns the world-to-view matrix.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the perspective projection matrix.
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
	ViewProjectionMatrix() [16]float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 5) looking at the origin with a 45° field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		position: [3]float32{0, 0, 5},
		up:       [3]float32{0, 1, 0},
		fov:      common.DegToRad(45),
		aspect:   1,
		near:     0.1,
		far:      100,
		dirty:    true,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() (x, y, z float32) {
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.position = [3]float32{x, y, z}
	c.dirty = true
}

func (c *cameraImpl) Target() (x, y, z float32) {
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.target = [3]float32{x, y, z}
	c.dirty = true
}

func (c *cameraImpl) Up() (x, y, z float32) {
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.up = [3]float32{x, y, z}
	c.dirty = true
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = fov
	c.dirty = true
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.aspect = aspect
	c.dirty = true
}

func (c *cameraImpl) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
	c.dirty = true
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
	c.dirty = true
}

// spherical returns the position relative to the target as radius, azimuth and elevation.
func (c *cameraImpl) spherical() (radius, azimuth, elevation float32) {
	dx := c.position[0] - c.target[0]
	dy := c.position[1] - c.target[1]
	dz := c.position[2] - c.target[2]
	radius = math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if radius == 0 {
		return 0, 0, 0
	}
	return radius, math32.Atan2(dx, dz), math32.Asin(dy / radius)
}

func (c *cameraImpl) setSpherical(radius, azimuth, elevation float32) {
	sinElev, cosElev := math32.Sincos(elevation)
	sinAzim, cosAzim := math32.Sincos(azimuth)
	c.position[0] = c.target[0] + radius*cosElev*sinAzim
	c.position[1] = c.target[1] + radius*sinElev
	c.position[2] = c.target[2] + radius*cosElev*cosAzim
	c.dirty = true
}

func (c *cameraImpl) Orbit(dAzimuth, dElevation float32) {
	radius, azimuth, elevation := c.spherical()
	if radius == 0 {
		return
	}
	elevation = math32.Max(-maxElevation, math32.Min(maxElevation, elevation+dElevation))
	c.setSpherical(radius, azimuth+dAzimuth, elevation)
}

func (c *cameraImpl) Zoom(delta float32) {
	radius, azimuth, elevation := c.spherical()
	if radius == 0 {
		return
	}
	c.setSpherical(math32.Max(minDistance, radius-delta), azimuth, elevation)
}

func (c *cameraImpl) Pan(right, up float32) {
	bx, by, bz := common.Normalize3(c.position[0]-c.target[0], c.position[1]-c.target[1], c.position[2]-c.target[2])
	rx, ry, rz := common.Normalize3(common.Cross3(c.up[0], c.up[1], c.up[2], bx, by, bz))
	ux, uy, uz := common.Cross3(bx, by, bz, rx, ry, rz)

	dx := rx*right + ux*up
	dy := ry*right + uy*up
	dz := rz*right + uz*up
	for i, d := range [3]float32{dx, dy, dz} {
		c.position[i] += d
		c.target[i] += d
	}
	c.dirty = true
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.updateMatrices()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.updateMatrices()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.updateMatrices()
	return c.viewProjectionMatrix
}

// updateMatrices recalculates the view, projection and view-projection matrices if any
// input changed since the last call.
func (c *cameraImpl) updateMatrices() {
	if !c.dirty {
		return
	}
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	c.dirty = false
}
