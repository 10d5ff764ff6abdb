package material

import (
	"math"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

const (
	// MaxDepth is the last recursion level allowed to spawn secondary rays
	MaxDepth = 7

	// AmbientFactor scales the base color into the unlit term
	AmbientFactor = 0.9

	// surfaceBias pushes secondary ray origins off the shaded surface
	surfaceBias = 1e-4
)

// Shade evaluates the material at a hit. The tracer is only read, so Shade
// is safe to call from many goroutines sharing one scene.
func (m *Material) Shade(tracer Tracer, lights []Light, hit HitRecord, depth int) core.Vec3 {
	switch m.Kind {
	case KindNormal:
		return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
	case KindDistance:
		g := 1.0 / (1.0 + hit.Distance)
		return core.NewVec3(g, g, g)
	case KindPhong:
		return m.shadePhong(tracer, lights, hit, depth)
	case KindCookTorrance:
		return m.shadeCookTorrance(tracer, lights, hit)
	default:
		return core.Vec3{}
	}
}

func (m *Material) shadePhong(tracer Tracer, lights []Light, hit HitRecord, depth int) core.Vec3 {
	base := m.Texture.Sample(hit.Point)
	color := base.Multiply(AmbientFactor)
	view := hit.Ray.Direction.Negate()

	for _, light := range lights {
		toLight, ok := visible(tracer, hit, light)
		if !ok {
			continue
		}

		if nl := hit.Normal.Dot(toLight); nl > 0 {
			color = color.Add(light.Color.MultiplyVec(base).Multiply(nl * m.Kd))
		}

		reflected := toLight.Negate().Reflect(hit.Normal)
		if rv := reflected.Dot(view); rv > 0 {
			color = color.Add(light.Color.Multiply(math.Pow(rv, m.Ke) * m.Ks))
		}
	}

	if depth >= MaxDepth {
		return color
	}

	if m.Kr > 0 {
		color = color.Add(m.reflect(tracer, hit, depth).Multiply(m.Kr))
	}
	if m.Kt > 0 {
		color = color.Add(m.transmit(tracer, hit, depth).Multiply(m.Kt))
	}

	return color
}

// reflect fires a mirror ray, staying in whatever medium the incoming ray was in
func (m *Material) reflect(tracer Tracer, hit HitRecord, depth int) core.Vec3 {
	dir := hit.Ray.Direction.Reflect(hit.Normal)
	origin := offsetOrigin(hit.Point, hit.Normal, dir)
	return tracer.Fire(core.NewMediumRay(origin, dir, hit.Ray.Inside), depth+1)
}

// transmit fires a refracted ray, or a reflected one under total internal reflection
func (m *Material) transmit(tracer Tracer, hit HitRecord, depth int) core.Vec3 {
	incoming := hit.Ray.Direction

	// Refraction needs the normal on the incoming side
	normal := hit.Normal
	if incoming.Dot(normal) > 0 {
		normal = normal.Negate()
	}

	ratio := 1.0 / m.Eta
	if hit.Ray.Inside {
		ratio = m.Eta
	}

	dir, ok := incoming.Refract(normal, ratio)
	if !ok {
		dir = incoming.Reflect(normal)
		origin := offsetOrigin(hit.Point, normal, dir)
		return tracer.Fire(core.NewMediumRay(origin, dir, hit.Ray.Inside), depth+1)
	}

	origin := offsetOrigin(hit.Point, normal, dir)
	return tracer.Fire(core.NewMediumRay(origin, dir, !hit.Ray.Inside), depth+1)
}

func (m *Material) shadeCookTorrance(tracer Tracer, lights []Light, hit HitRecord) core.Vec3 {
	base := m.Texture.Sample(hit.Point)
	color := base.Multiply(AmbientFactor)
	view := hit.Ray.Direction.Negate()

	nv := hit.Normal.Dot(view)
	if nv <= 0 {
		return color
	}

	diffuse := base.Multiply(1 - m.K)

	for _, light := range lights {
		toLight, ok := visible(tracer, hit, light)
		if !ok {
			continue
		}

		nl := hit.Normal.Dot(toLight)
		if nl <= 0 {
			continue
		}

		half := toLight.Add(view).Normalize()
		nh := math.Max(hit.Normal.Dot(half), 0)
		vh := view.Dot(half)
		if vh <= 0 || nh == 0 {
			color = color.Add(light.Color.MultiplyVec(diffuse).Multiply(nl))
			continue
		}

		d := beckmann(nh, m.Roughness)
		f := schlick(vh, m.F0)
		g := math.Min(1, math.Min(2*nh*nv/vh, 2*nh*nl/vh))
		specular := f * d * g / (4 * nv * nl)

		term := diffuse.Add(core.NewVec3(specular, specular, specular).Multiply(m.K))
		color = color.Add(light.Color.MultiplyVec(term).Multiply(nl))
	}

	return color
}

// visible returns the unit direction to the light when nothing blocks it
func visible(tracer Tracer, hit HitRecord, light Light) (core.Vec3, bool) {
	toLight := light.Position.Subtract(hit.Point)
	lightDistance := toLight.Length()
	if lightDistance == 0 {
		return core.Vec3{}, false
	}
	toLight = toLight.Divide(lightDistance)

	origin := offsetOrigin(hit.Point, hit.Normal, toLight)
	if _, occluder, ok := tracer.Intersect(core.NewRay(origin, toLight)); ok && occluder < lightDistance {
		return core.Vec3{}, false
	}
	return toLight, true
}

// beckmann is the microfacet slope distribution
func beckmann(nh, roughness float64) float64 {
	m2 := roughness * roughness
	cos2 := nh * nh
	tan2 := (1 - cos2) / cos2
	return math.Exp(-tan2/m2) / (math.Pi * m2 * cos2 * cos2)
}

// schlick approximates the Fresnel reflectance
func schlick(cosTheta, f0 float64) float64 {
	return f0 + (1-f0)*math.Pow(1-cosTheta, 5)
}

// offsetOrigin moves a point off the surface on the side dir leaves through
func offsetOrigin(point, normal, dir core.Vec3) core.Vec3 {
	if dir.Dot(normal) < 0 {
		return point.Subtract(normal.Multiply(surfaceBias))
	}
	return point.Add(normal.Multiply(surfaceBias))
}
