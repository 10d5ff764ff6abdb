package geometry

import (
	"math"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

// CameraConfig describes a look-at pinhole camera
type CameraConfig struct {
	LookFrom    core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	FOV         float64 // Horizontal field of view in degrees
	AspectRatio float64 // Width / height
	FocalLength float64
}

// Camera generates primary rays. Its fields are exported so it can travel
// inside a render job.
type Camera struct {
	Origin          core.Vec3
	LowerLeftCorner core.Vec3
	Horizontal      core.Vec3
	Vertical        core.Vec3
}

// NewCamera builds the viewport spanned by the camera configuration
func NewCamera(config CameraConfig) *Camera {
	theta := config.FOV * math.Pi / 180.0
	width := 2.0 * math.Tan(theta/2.0)
	height := width / config.AspectRatio

	n := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(n).Normalize()
	v := n.Cross(u).Normalize()

	// Screen x runs along -u
	horizontal := u.Negate().Multiply(config.FocalLength * width)
	vertical := v.Multiply(config.FocalLength * height)
	lowerLeft := config.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(n.Multiply(config.FocalLength))

	return &Camera{
		Origin:          config.LookFrom,
		LowerLeftCorner: lowerLeft,
		Horizontal:      horizontal,
		Vertical:        vertical,
	}
}

// GetRay generates a ray through screen coordinates (x, y) where 0 <= x,y <= 1
// and (0, 0) is the lower-left corner of the viewport
func (c *Camera) GetRay(x, y float64) core.Ray {
	target := c.LowerLeftCorner.
		Add(c.Horizontal.Multiply(x)).
		Add(c.Vertical.Multiply(y))

	return core.NewRay(c.Origin, target.Subtract(c.Origin))
}
