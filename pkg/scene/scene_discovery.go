package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-distributed-raytracer/pkg/geometry"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string // Name used on the command line
	DisplayName string
	Description string
	NeedsMesh   bool // Requires triangles from a PLY file
}

var builtInScenes = []SceneInfo{
	{
		ID:          "spheres",
		DisplayName: "Spheres",
		Description: "Checkered floor with mirror, glass and Cook-Torrance spheres",
	},
	{
		ID:          "mesh",
		DisplayName: "Mesh",
		Description: "Single Phong-shaded triangle mesh loaded from a PLY file",
		NeedsMesh:   true,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtInScenes))
	copy(scenes, builtInScenes)
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Lookup returns the scene registered under id, ignoring case
func Lookup(id string) (SceneInfo, error) {
	for _, info := range builtInScenes {
		if strings.EqualFold(info.ID, id) {
			return info, nil
		}
	}
	return SceneInfo{}, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// NewByName builds a preset. Mesh scenes take their geometry from triangles.
func NewByName(id string, triangles []geometry.Primitive, aspectRatio float64) (*Scene, geometry.CameraConfig, error) {
	info, err := Lookup(id)
	if err != nil {
		return nil, geometry.CameraConfig{}, err
	}

	switch info.ID {
	case "spheres":
		s, camera := NewSpheresScene(aspectRatio)
		return s, camera, nil
	case "mesh":
		if len(triangles) == 0 {
			return nil, geometry.CameraConfig{}, fmt.Errorf("scene %q: no triangles", info.ID)
		}
		s, camera := NewMeshScene(triangles, aspectRatio)
		return s, camera, nil
	default:
		return nil, geometry.CameraConfig{}, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
}
