package material

import "fmt"

// Kind tags the variant held by a Material
type Kind uint8

const (
	KindNormal Kind = iota
	KindDistance
	KindPhong
	KindCookTorrance
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindDistance:
		return "distance"
	case KindPhong:
		return "phong"
	case KindCookTorrance:
		return "cook-torrance"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Material is a closed set of surface models. Fields not used by Kind are zero.
type Material struct {
	Kind    Kind
	Texture Texture

	// Phong
	Kd  float64 // Diffuse coefficient
	Ks  float64 // Specular coefficient
	Ke  float64 // Specular exponent
	Kr  float64 // Mirror reflection weight
	Kt  float64 // Transmission weight
	Eta float64 // Index of refraction

	// Cook-Torrance
	F0        float64 // Fresnel reflectance at normal incidence
	Roughness float64 // Beckmann slope RMS
	K         float64 // Specular blend weight
}

// NewPhong creates a Phong material with optional mirror and transmission terms
func NewPhong(texture Texture, kd, ks, ke, kr, kt, eta float64) Material {
	return Material{
		Kind:    KindPhong,
		Texture: texture,
		Kd:      kd,
		Ks:      ks,
		Ke:      ke,
		Kr:      kr,
		Kt:      kt,
		Eta:     eta,
	}
}

// NewCookTorrance creates a microfacet material
func NewCookTorrance(texture Texture, f0, roughness, k float64) Material {
	return Material{
		Kind:      KindCookTorrance,
		Texture:   texture,
		F0:        f0,
		Roughness: roughness,
		K:         k,
	}
}

// NewNormalDebug visualizes surface normals
func NewNormalDebug() Material {
	return Material{Kind: KindNormal}
}

// NewDistanceDebug visualizes hit distance
func NewDistanceDebug() Material {
	return Material{Kind: KindDistance}
}

// Validate reports parameters that would make shading produce NaN
func (m Material) Validate() error {
	switch m.Kind {
	case KindNormal, KindDistance:
		return nil
	case KindPhong:
		if m.Kt > 0 && m.Eta <= 0 {
			return fmt.Errorf("%w: phong transmission needs eta > 0, got %g", ErrInvalidMaterial, m.Eta)
		}
		return nil
	case KindCookTorrance:
		if m.Roughness <= 0 {
			return fmt.Errorf("%w: cook-torrance roughness must be > 0, got %g", ErrInvalidMaterial, m.Roughness)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidMaterial, m.Kind)
	}
}
