package material

import (
	"math"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

// checkerCellSize is the world-space edge length of one checker cell
const checkerCellSize = 0.5

// TextureKind tags the variant held by a Texture
type TextureKind uint8

const (
	TextureSolid TextureKind = iota
	TextureChecker
)

// Texture provides spatially-varying base colors, sampled by world-space x/z.
// Solid uses A only; Checker alternates A and B.
type Texture struct {
	Kind TextureKind
	A    core.Vec3
	B    core.Vec3
}

// NewSolidTexture creates a uniform color texture
func NewSolidTexture(color core.Vec3) Texture {
	return Texture{Kind: TextureSolid, A: color}
}

// NewCheckerTexture creates a 2-D checkerboard over the x/z plane
func NewCheckerTexture(a, b core.Vec3) Texture {
	return Texture{Kind: TextureChecker, A: a, B: b}
}

// Sample returns the texture color at a world-space point
func (t Texture) Sample(point core.Vec3) core.Vec3 {
	switch t.Kind {
	case TextureChecker:
		if oddCell(point.X) != oddCell(point.Z) {
			return t.A
		}
		return t.B
	default:
		return t.A
	}
}

// oddCell reports whether v falls in an odd checker cell. Non-finite
// coordinates count as even.
func oddCell(v float64) bool {
	return math.Abs(math.Mod(math.Floor(v/checkerCellSize), 2)) == 1
}
