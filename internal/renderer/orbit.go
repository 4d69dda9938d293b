package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Keeps the camera off the poles, where the view matrix degenerates.
const polarEpsilon = 1e-4

var infinity = float32(math.Inf(1))

// OrbitControls moves a camera on a sphere around Target. Angles are in
// radians: polar is measured from +Y, azimuth around +Y starting at +Z.
type OrbitControls struct {
	Camera *Camera
	Target mgl32.Vec3

	MinDistance     float32
	MaxDistance     float32
	MinPolarAngle   float32
	MaxPolarAngle   float32
	MinAzimuthAngle float32
	MaxAzimuthAngle float32

	RotateSpeed float32
	ZoomSpeed   float32
	Enabled     bool

	deltaTheta float32
	deltaPhi   float32
	scale      float32

	savedTarget   mgl32.Vec3
	savedPosition mgl32.Vec3
}

// Framing is a fixed viewpoint plus the angle ranges the user may explore
// once the camera has been placed there.
type Framing struct {
	Target       mgl32.Vec3
	Distance     float32
	Polar        float32
	Azimuth      float32
	PolarRange   [2]float32
	// AzimuthRange may cross the back seam, e.g. {170°, -170°}.
	AzimuthRange [2]float32
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	oc := &OrbitControls{
		Camera:      camera,
		Target:      camera.Target,
		RotateSpeed: 1.0,
		ZoomSpeed:   1.0,
		Enabled:     true,
		scale:       1,
	}
	oc.ResetConstraints()
	oc.SaveState()
	return oc
}

// ResetConstraints removes every distance and angle bound.
func (oc *OrbitControls) ResetConstraints() {
	oc.MinDistance = 0
	oc.MaxDistance = infinity
	oc.MinPolarAngle = 0
	oc.MaxPolarAngle = math.Pi
	oc.MinAzimuthAngle = -infinity
	oc.MaxAzimuthAngle = infinity
}

// SaveState records the current target and camera position for Reset.
func (oc *OrbitControls) SaveState() {
	oc.savedTarget = oc.Target
	oc.savedPosition = oc.Camera.Position
}

// Reset restores the state recorded by SaveState.
func (oc *OrbitControls) Reset() {
	oc.Target = oc.savedTarget
	oc.Camera.Position = oc.savedPosition
	oc.deltaTheta, oc.deltaPhi, oc.scale = 0, 0, 1
	oc.Update()
}

// Rotate turns the camera by a pointer drag of dx, dy pixels. A drag across
// the full viewport height is one full turn.
func (oc *OrbitControls) Rotate(dx, dy float32, viewportHeight int32) {
	if !oc.Enabled || viewportHeight <= 0 {
		return
	}
	oc.RotateLeft(2 * math.Pi * dx / float32(viewportHeight) * oc.RotateSpeed)
	oc.RotateUp(2 * math.Pi * dy / float32(viewportHeight) * oc.RotateSpeed)
}

func (oc *OrbitControls) RotateLeft(angle float32) {
	oc.deltaTheta -= angle
}

func (oc *OrbitControls) RotateUp(angle float32) {
	oc.deltaPhi -= angle
}

// Dolly moves towards the target for positive steps, away for negative ones.
func (oc *OrbitControls) Dolly(steps float32) {
	if !oc.Enabled {
		return
	}
	oc.scale *= float32(math.Pow(0.95, float64(steps*oc.ZoomSpeed)))
}

// Spherical returns the camera's current offset from the target.
func (oc *OrbitControls) Spherical() (radius, polar, azimuth float32) {
	offset := oc.Camera.Position.Sub(oc.Target)
	radius = offset.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	polar = float32(math.Acos(float64(mgl32.Clamp(offset.Y()/radius, -1, 1))))
	return radius, polar, azimuth
}

// Update applies pending input, clamps to the bounds and moves the camera.
func (oc *OrbitControls) Update() {
	radius, phi, theta := oc.Spherical()

	theta += oc.deltaTheta
	phi += oc.deltaPhi
	radius *= oc.scale
	oc.deltaTheta, oc.deltaPhi, oc.scale = 0, 0, 1

	if !math.IsInf(float64(oc.MinAzimuthAngle), 0) && !math.IsInf(float64(oc.MaxAzimuthAngle), 0) {
		theta = clampAzimuth(wrapAngle(theta), wrapAngle(oc.MinAzimuthAngle), wrapAngle(oc.MaxAzimuthAngle))
	}
	phi = mgl32.Clamp(phi, oc.MinPolarAngle, oc.MaxPolarAngle)
	phi = mgl32.Clamp(phi, polarEpsilon, math.Pi-polarEpsilon)
	radius = mgl32.Clamp(radius, oc.MinDistance, oc.MaxDistance)

	sinPhi := float32(math.Sin(float64(phi)))
	offset := mgl32.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	}
	oc.Camera.Position = oc.Target.Add(offset)
	oc.Camera.LookAt(oc.Target)
}

// wrapAngle maps a to (-pi, pi].
func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clampAzimuth clamps theta to [lo, hi]. When lo > hi the allowed arc
// crosses the +-pi seam, and theta snaps to whichever bound is nearer.
func clampAzimuth(theta, lo, hi float32) float32 {
	if lo <= hi {
		return mgl32.Clamp(theta, lo, hi)
	}
	if theta >= lo || theta <= hi {
		return theta
	}
	if theta > (lo+hi)/2 {
		return lo
	}
	return hi
}

// Lock pins distance and both angles to f so the camera lands on exactly
// one viewpoint on the next Update.
func (oc *OrbitControls) Lock(f Framing) {
	oc.Target = f.Target
	oc.MinDistance, oc.MaxDistance = f.Distance, f.Distance
	oc.MinPolarAngle, oc.MaxPolarAngle = f.Polar, f.Polar
	oc.MinAzimuthAngle, oc.MaxAzimuthAngle = f.Azimuth, f.Azimuth
	oc.Update()
}

// Relax reopens the angle bounds to f's ranges. Distance stays locked.
func (oc *OrbitControls) Relax(f Framing) {
	oc.MinPolarAngle, oc.MaxPolarAngle = f.PolarRange[0], f.PolarRange[1]
	oc.MinAzimuthAngle, oc.MaxAzimuthAngle = f.AzimuthRange[0], f.AzimuthRange[1]
	oc.Update()
}
