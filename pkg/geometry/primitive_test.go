package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

func TestSphere_Intersect(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "Ray along +z hits front face",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 4,
		},
		{
			name:      "Ray from inside hits far side",
			ray:       core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1,
		},
		{
			name:      "Ray pointing away misses",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
		{
			name:      "Ray passing beside misses",
			ray:       core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray starting on the surface ignores itself",
			ray:       core.NewRay(core.NewVec3(0, 0, 4), core.NewVec3(0, 0, -1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := sphere.Intersect(tt.ray)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v (t=%f)", tt.shouldHit, ok, d)
			}
			if ok && math.Abs(d-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, d)
			}
		})
	}
}

func TestSphere_NormalAtHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	d, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected hit")
	}

	normal := sphere.Normal(ray.At(d))
	if normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected normal (0,0,-1), got %v", normal)
	}
}

func TestSphere_HitLiesOnSurface(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		center := randomVec(random, 5)
		radius := 0.1 + random.Float64()*2
		sphere := NewSphere(center, radius)
		ray := core.NewRay(randomVec(random, 10), randomVec(random, 1))

		d, ok := sphere.Intersect(ray)
		if !ok {
			continue
		}
		if d <= Epsilon {
			t.Fatalf("Hit distance %g not above epsilon", d)
		}
		if dist := ray.At(d).Subtract(center).Length(); math.Abs(dist-radius) > 1e-6 {
			t.Fatalf("Hit point at distance %f from center, radius %f", dist, radius)
		}
	}
}

func TestSphere_Degenerate(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if _, ok := NewSphere(core.NewVec3(0, 0, 5), 0).Intersect(ray); ok {
		t.Error("Zero-radius sphere must not be hit")
	}
	if _, ok := NewSphere(core.NewVec3(0, 0, 5), 1).Intersect(core.Ray{}); ok {
		t.Error("Zero-length direction must not hit")
	}
	nanRay := core.Ray{Direction: core.NewVec3(math.NaN(), 0, 1)}
	if _, ok := NewSphere(core.NewVec3(0, 0, 5), 1).Intersect(nanRay); ok {
		t.Error("NaN direction must not hit")
	}
	if !NewSphere(core.Vec3{}, -1).IsDegenerate() {
		t.Error("Negative radius should be degenerate")
	}
}

func TestTriangle_Intersect(t *testing.T) {
	triangle := NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
	)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"Ray hits triangle center", core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)), true, 1},
		{"Ray hits from behind", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)), true, 1},
		{"Ray misses triangle", core.NewRay(core.NewVec3(1, 1, -1), core.NewVec3(0, 0, 1)), false, 0},
		{"Ray parallel to triangle", core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)), false, 0},
		{"Triangle behind origin", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := triangle.Intersect(tt.ray)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, ok)
			}
			if ok && math.Abs(d-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, d)
			}
		})
	}
}

func TestTriangle_BarycentricReconstruction(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	hits := 0
	for i := 0; i < 2000; i++ {
		tri := NewTriangle(randomVec(random, 3), randomVec(random, 3), randomVec(random, 3))
		if tri.V1.Subtract(tri.V0).Cross(tri.V2.Subtract(tri.V0)).Length() < 0.05 {
			continue
		}
		ray := core.NewRay(randomVec(random, 6), randomVec(random, 1))

		d, u, v, ok := tri.IntersectBarycentric(ray)
		if !ok {
			continue
		}
		hits++

		if u < 0 || v < 0 || u+v > 1 {
			t.Fatalf("Barycentrics out of range: u=%f v=%f", u, v)
		}
		w := 1 - u - v
		point := tri.V0.Multiply(w).Add(tri.V1.Multiply(u)).Add(tri.V2.Multiply(v))
		if point.Subtract(ray.At(d)).Length() > 1e-6 {
			t.Fatalf("Barycentric point %v differs from ray point %v", point, ray.At(d))
		}
	}
	if hits == 0 {
		t.Fatal("Expected at least one random ray to hit")
	}
}

func TestTriangle_NormalWinding(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	if n := tri.Normal(core.NewVec3(0.2, 0.2, 0)); n != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected (0,0,1) for counter-clockwise winding, got %v", n)
	}

	flipped := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0))
	if n := flipped.Normal(core.NewVec3(0.2, 0.2, 0)); n != core.NewVec3(0, 0, -1) {
		t.Errorf("Expected (0,0,-1) for clockwise winding, got %v", n)
	}
}

func TestPrimitive_BoundingBoxAndSplitPredicates(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5)
	box := sphere.BoundingBox()
	if box.Min != core.NewVec3(0.5, 1.5, 2.5) || box.Max != core.NewVec3(1.5, 2.5, 3.5) {
		t.Errorf("Unexpected sphere bounds %v", box)
	}

	tests := []struct {
		name  string
		axis  core.Axis
		coord float64
		left  bool
		right bool
	}{
		{"Plane left of sphere", core.AxisX, 0, false, true},
		{"Plane right of sphere", core.AxisX, 2, true, false},
		{"Plane through sphere", core.AxisY, 2, true, true},
		{"Plane touching min", core.AxisZ, 2.5, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sphere.LeftOf(tt.axis, tt.coord); got != tt.left {
				t.Errorf("LeftOf: expected %v, got %v", tt.left, got)
			}
			if got := sphere.RightOf(tt.axis, tt.coord); got != tt.right {
				t.Errorf("RightOf: expected %v, got %v", tt.right, got)
			}
		})
	}
}

func randomVec(random *rand.Rand, scale float64) core.Vec3 {
	return core.NewVec3(
		(random.Float64()*2-1)*scale,
		(random.Float64()*2-1)*scale,
		(random.Float64()*2-1)*scale,
	)
}
