package geometry

import (
	"math"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

// Epsilon is the smallest accepted hit distance. Closer hits are rejected so a
// ray leaving a surface does not re-hit that surface.
const Epsilon = 1e-6

// Kind tags the variant held by a Primitive
type Kind uint8

const (
	KindSphere Kind = iota
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Primitive is a closed sum of the intersectable shapes. Only the fields
// belonging to Kind are meaningful: Center/Radius for spheres, V0/V1/V2 for
// triangles. Every operation dispatches on Kind with a single switch.
type Primitive struct {
	Kind Kind

	Center core.Vec3
	Radius float64

	V0, V1, V2 core.Vec3
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) Primitive {
	return Primitive{Kind: KindSphere, Center: center, Radius: radius}
}

// NewTriangle creates a new triangle from three vertices. The winding order
// V0 -> V1 -> V2 defines the normal through (V1-V0) x (V2-V0).
func NewTriangle(v0, v1, v2 core.Vec3) Primitive {
	return Primitive{Kind: KindTriangle, V0: v0, V1: v1, V2: v2}
}

// Intersect returns the smallest hit distance greater than Epsilon, or false.
func (p Primitive) Intersect(ray core.Ray) (float64, bool) {
	switch p.Kind {
	case KindSphere:
		return p.intersectSphere(ray)
	case KindTriangle:
		t, _, _, ok := p.IntersectBarycentric(ray)
		return t, ok
	default:
		return 0, false
	}
}

// Normal returns the unit surface normal at a point on the primitive
func (p Primitive) Normal(point core.Vec3) core.Vec3 {
	switch p.Kind {
	case KindSphere:
		return point.Subtract(p.Center).Normalize()
	case KindTriangle:
		return p.V1.Subtract(p.V0).Cross(p.V2.Subtract(p.V0)).Normalize()
	default:
		return core.Vec3{}
	}
}

// BoundingBox returns the tight axis-aligned bounds of the primitive
func (p Primitive) BoundingBox() core.AABB {
	switch p.Kind {
	case KindSphere:
		r := math.Abs(p.Radius)
		radius := core.NewVec3(r, r, r)
		return core.NewAABB(p.Center.Subtract(radius), p.Center.Add(radius))
	case KindTriangle:
		return core.NewAABBFromPoints(p.V0, p.V1, p.V2)
	default:
		return core.AABB{}
	}
}

// LeftOf reports whether any part of the primitive lies at or below the
// coordinate on the given axis.
func (p Primitive) LeftOf(axis core.Axis, coord float64) bool {
	return p.BoundingBox().Min.Component(axis) <= coord
}

// RightOf reports whether any part of the primitive lies at or above the
// coordinate on the given axis.
func (p Primitive) RightOf(axis core.Axis, coord float64) bool {
	return p.BoundingBox().Max.Component(axis) >= coord
}

// IsDegenerate reports whether the primitive can never be hit: a sphere with
// a non-positive radius or a triangle with collinear vertices.
func (p Primitive) IsDegenerate() bool {
	switch p.Kind {
	case KindSphere:
		return !(p.Radius > 0)
	case KindTriangle:
		return !(p.V1.Subtract(p.V0).Cross(p.V2.Subtract(p.V0)).LengthSquared() > 0)
	default:
		return true
	}
}

func (p Primitive) intersectSphere(ray core.Ray) (float64, bool) {
	if !(p.Radius > 0) {
		return 0, false
	}

	a := ray.Direction.LengthSquared()
	if a == 0 {
		return 0, false
	}

	// Project the origin-to-center vector onto the direction
	oc := ray.Origin.Subtract(p.Center)
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - p.Radius*p.Radius

	discriminant := halfB*halfB - a*c
	if !(discriminant >= 0) {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Near root first, then the far root for origins inside the sphere
	if t := (-halfB - sqrtD) / a; t > Epsilon {
		return t, true
	}
	if t := (-halfB + sqrtD) / a; t > Epsilon {
		return t, true
	}
	return 0, false
}

// IntersectBarycentric runs the Möller-Trumbore test against a triangle and
// returns the hit distance with the barycentric coordinates (u, v) of the hit
// point, such that point = (1-u-v)*V0 + u*V1 + v*V2.
func (p Primitive) IntersectBarycentric(ray core.Ray) (t, u, v float64, ok bool) {
	if p.Kind != KindTriangle {
		return 0, 0, 0, false
	}
	const parallelEpsilon = 1e-12

	edge1 := p.V1.Subtract(p.V0)
	edge2 := p.V2.Subtract(p.V0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Ray parallel to the triangle plane, or degenerate triangle
	if !(math.Abs(det) > parallelEpsilon) {
		return 0, 0, 0, false
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(p.V0)
	u = f * s.Dot(h)
	if !(u >= 0) || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if !(v >= 0) || u+v > 1 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if !(t > Epsilon) {
		return 0, 0, 0, false
	}

	return t, u, v, true
}
