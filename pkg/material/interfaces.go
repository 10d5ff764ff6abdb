package material

import (
	"github.com/df07/go-distributed-raytracer/pkg/core"
)

// Tracer is the read-only view of a scene that shading needs for shadow and
// secondary rays. It is declared here to avoid a circular import with the
// scene package.
type Tracer interface {
	// Intersect returns the nearest primitive index and hit distance
	Intersect(ray core.Ray) (int, float64, bool)
	// Fire traces a secondary ray at the given recursion depth
	Fire(ray core.Ray, depth int) core.Vec3
}

// HitRecord contains information about a ray-primitive intersection
type HitRecord struct {
	Ray      core.Ray  // Ray that produced the hit
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Geometric normal, never flipped toward the viewer
	Distance float64   // Parameter t along the ray
}

// Light is a point light with hard shadows
type Light struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewLight creates a new point light
func NewLight(position, color core.Vec3) Light {
	return Light{Position: position, Color: color}
}
