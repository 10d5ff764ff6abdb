package scene

import (
	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
	"github.com/df07/go-distributed-raytracer/pkg/material"
)

// NewMeshScene shades a triangle mesh with one Phong material and one light.
// The camera is framed for the Stanford bunny.
func NewMeshScene(triangles []geometry.Primitive, aspectRatio float64) (*Scene, geometry.CameraConfig) {
	cameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0.2),
		LookAt:      core.NewVec3(0, 0.1, 0),
		Up:          core.NewVec3(0, 1, 0),
		FOV:         120,
		AspectRatio: aspectRatio,
		FocalLength: 0.5,
	}

	s := New()
	mat := s.AddMaterial(material.NewPhong(
		material.NewSolidTexture(core.RGB(200, 76, 40)),
		0.7, 0.3, 12, 0.3, 0, 1,
	))
	must(s.AddEntities(triangles, mat))
	must(s.AddLight(material.NewLight(core.NewVec3(0, 1, 2), core.NewVec3(0.5, 0.5, 0.5))))

	return s, cameraConfig
}
