package scene

import (
	"fmt"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
	"github.com/df07/go-distributed-raytracer/pkg/material"
)

// DefaultBackground is returned for rays that escape the scene
var DefaultBackground = core.RGB(122, 138, 214)

// Scene owns the primitives, their materials and the lights. Geometry and
// MaterialIndex are parallel slices. Once BuildIndex has run the scene is
// frozen and safe for concurrent reads.
type Scene struct {
	Geometry      []geometry.Primitive
	MaterialIndex []int
	Materials     []material.Material
	Lights        []material.Light
	Background    core.Vec3
	Index         *geometry.KDTree // nil until BuildIndex
}

// New creates an empty scene with the default background
func New() *Scene {
	return &Scene{Background: DefaultBackground}
}

// AddMaterial registers a material and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// AddEntity adds a primitive shaded by the material at materialIndex
func (s *Scene) AddEntity(p geometry.Primitive, materialIndex int) error {
	if s.Index != nil {
		return ErrFrozen
	}
	if materialIndex < 0 || materialIndex >= len(s.Materials) {
		return fmt.Errorf("%w: %d (have %d materials)", ErrInvalidMaterialIndex, materialIndex, len(s.Materials))
	}
	s.Geometry = append(s.Geometry, p)
	s.MaterialIndex = append(s.MaterialIndex, materialIndex)
	return nil
}

// AddEntities adds every primitive with the same material
func (s *Scene) AddEntities(primitives []geometry.Primitive, materialIndex int) error {
	for _, p := range primitives {
		if err := s.AddEntity(p, materialIndex); err != nil {
			return err
		}
	}
	return nil
}

// AddLight adds a point light
func (s *Scene) AddLight(light material.Light) error {
	if s.Index != nil {
		return ErrFrozen
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// Validate checks the parallel-slice invariants and material parameters
func (s *Scene) Validate() error {
	if len(s.Geometry) != len(s.MaterialIndex) {
		return fmt.Errorf("%w: %d primitives, %d material indices", ErrMismatchedGeometry, len(s.Geometry), len(s.MaterialIndex))
	}
	for i, idx := range s.MaterialIndex {
		if idx < 0 || idx >= len(s.Materials) {
			return fmt.Errorf("%w: primitive %d uses %d", ErrInvalidMaterialIndex, i, idx)
		}
	}
	for i := range s.Materials {
		if err := s.Materials[i].Validate(); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
	}
	return nil
}

// BuildIndex validates the scene and builds the spatial index. It must finish
// before any concurrent tracing starts and can only run once.
func (s *Scene) BuildIndex() error {
	if s.Index != nil {
		return ErrIndexBuilt
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s.Index = geometry.NewKDTree(s.Geometry)
	return nil
}

// EnsureIndex builds the index unless the scene already carries one, in which
// case the carried index is checked against the geometry before use
func (s *Scene) EnsureIndex() error {
	if s.Index == nil {
		return s.BuildIndex()
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return s.Index.Validate(len(s.Geometry))
}

// Intersect returns the nearest primitive hit, using the index when built
func (s *Scene) Intersect(ray core.Ray) (int, float64, bool) {
	if s.Index != nil {
		return s.Index.Intersect(s.Geometry, ray)
	}
	return geometry.NearestHitAll(s.Geometry, ray)
}

// Shade evaluates the material of primitive idx hit by ray at distance
func (s *Scene) Shade(idx int, ray core.Ray, distance float64, depth int) core.Vec3 {
	point := ray.At(distance)
	hit := material.HitRecord{
		Ray:      ray,
		Point:    point,
		Normal:   s.Geometry[idx].Normal(point),
		Distance: distance,
	}
	return s.Materials[s.MaterialIndex[idx]].Shade(s, s.Lights, hit, depth)
}

// Fire traces a ray into the scene and returns its color
func (s *Scene) Fire(ray core.Ray, depth int) core.Vec3 {
	idx, distance, ok := s.Intersect(ray)
	if !ok {
		return s.Background
	}
	return s.Shade(idx, ray, distance, depth)
}

// Stats summarizes the scene contents and index shape
type Stats struct {
	Primitives int
	Spheres    int
	Triangles  int
	Materials  int
	Lights     int
	Indexed    bool
	Index      geometry.KDStats
	Bounds     core.AABB
}

// Stats returns counts for reporting
func (s *Scene) Stats() Stats {
	stats := Stats{
		Primitives: len(s.Geometry),
		Materials:  len(s.Materials),
		Lights:     len(s.Lights),
		Indexed:    s.Index != nil,
	}
	for _, p := range s.Geometry {
		switch p.Kind {
		case geometry.KindSphere:
			stats.Spheres++
		case geometry.KindTriangle:
			stats.Triangles++
		}
	}
	if s.Index != nil {
		stats.Index = s.Index.Stats()
		stats.Bounds = s.Index.Bounds
	}
	return stats
}
