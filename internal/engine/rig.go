package engine

import (
	"Isle3D/internal/config"
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// OrbitRig frames the orbit camera for each scene. The exterior viewpoint is
// whatever the controls recorded with SaveState at startup.
type OrbitRig struct {
	Controls *renderer.OrbitControls
	Interior renderer.Framing
}

func NewOrbitRig(controls *renderer.OrbitControls, interior config.Interior) *OrbitRig {
	return &OrbitRig{Controls: controls, Interior: InteriorFraming(interior)}
}

// InteriorFraming converts the configured interior viewpoint to radians.
func InteriorFraming(c config.Interior) renderer.Framing {
	return renderer.Framing{
		Target:       mgl32.Vec3(c.Target),
		Distance:     c.Distance,
		Polar:        mgl32.DegToRad(c.Polar),
		Azimuth:      mgl32.DegToRad(c.Azimuth),
		PolarRange:   [2]float32{mgl32.DegToRad(c.PolarRange[0]), mgl32.DegToRad(c.PolarRange[1])},
		AzimuthRange: [2]float32{mgl32.DegToRad(c.AzimuthRange[0]), mgl32.DegToRad(c.AzimuthRange[1])},
	}
}

func (r *OrbitRig) ResetExterior() {
	r.Controls.ResetConstraints()
	r.Controls.Reset()
	logger.Log.Debug("Camera reset to exterior", zap.Any("position", r.Controls.Camera.Position))
}

func (r *OrbitRig) LockInterior() {
	r.Controls.Lock(r.Interior)
}

func (r *OrbitRig) RelaxInterior() {
	r.Controls.Relax(r.Interior)
	logger.Log.Debug("Camera framed for interior", zap.Any("position", r.Controls.Camera.Position))
}
