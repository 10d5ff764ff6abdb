package scene

import (
	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
	"github.com/df07/go-distributed-raytracer/pkg/material"
)

// NewSpheresScene creates a checkered floor with mirror, glass and
// Cook-Torrance spheres lit by two point lights
func NewSpheresScene(aspectRatio float64) (*Scene, geometry.CameraConfig) {
	cameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewVec3(0, 1.2, 2.5),
		LookAt:      core.NewVec3(0, 0.4, -1),
		Up:          core.NewVec3(0, 1, 0),
		FOV:         60,
		AspectRatio: aspectRatio,
		FocalLength: 1,
	}

	s := New()

	floor := s.AddMaterial(material.NewPhong(
		material.NewCheckerTexture(core.RGB(230, 230, 230), core.RGB(40, 40, 40)),
		0.8, 0.2, 8, 0.1, 0, 1,
	))
	mirror := s.AddMaterial(material.NewPhong(
		material.NewSolidTexture(core.RGB(20, 20, 20)),
		0.1, 0.6, 64, 0.8, 0, 1,
	))
	glass := s.AddMaterial(material.NewPhong(
		material.NewSolidTexture(core.RGB(10, 10, 12)),
		0, 0.5, 96, 0.1, 0.9, 1.5,
	))
	copper := s.AddMaterial(material.NewCookTorrance(
		material.NewSolidTexture(core.RGB(184, 115, 51)),
		0.95, 0.3, 0.6,
	))

	// Floor quad split along its diagonal, counter-clockwise from above so
	// the normals point up
	a := core.NewVec3(-4, 0, -5)
	b := core.NewVec3(4, 0, -5)
	c := core.NewVec3(4, 0, 3)
	d := core.NewVec3(-4, 0, 3)
	entities := []struct {
		primitive geometry.Primitive
		material  int
	}{
		{geometry.NewTriangle(a, d, c), floor},
		{geometry.NewTriangle(a, c, b), floor},
		{geometry.NewSphere(core.NewVec3(-1.1, 0.5, -1.2), 0.5), mirror},
		{geometry.NewSphere(core.NewVec3(0, 0.45, -0.4), 0.45), glass},
		{geometry.NewSphere(core.NewVec3(1.1, 0.5, -1.2), 0.5), copper},
	}
	for _, e := range entities {
		must(s.AddEntity(e.primitive, e.material))
	}

	must(s.AddLight(material.NewLight(core.NewVec3(-3, 5, 2), core.NewVec3(0.6, 0.6, 0.55))))
	must(s.AddLight(material.NewLight(core.NewVec3(3, 4, 3), core.NewVec3(0.35, 0.35, 0.4))))

	return s, cameraConfig
}

// must panics on a population error. Presets only fail through a
// programming mistake, never through input.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
