// Package tonemap compresses raw radiance buffers into display-range color.
package tonemap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

const (
	// LMax is the world luminance assigned to a radiance value of 1
	LMax = 100.0
	// LDMax is the maximum display luminance in nits
	LDMax = 500.0
	// Delta keeps the log-average finite over black pixels
	Delta = 0.001
	// DefaultBias is the adaptive logarithmic bias used when none is given
	DefaultBias = 0.85

	reinhardKey = 0.18
)

// ErrUnknownOperator is returned by ParseOperator for unrecognized names
var ErrUnknownOperator = errors.New("tonemap: unknown operator")

// Kind selects a tone mapping operator
type Kind int

const (
	KindNone Kind = iota
	KindMaxNormalize
	KindWard
	KindReinhard
	KindALM
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMaxNormalize:
		return "max"
	case KindWard:
		return "ward"
	case KindReinhard:
		return "reinhard"
	case KindALM:
		return "alm"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operator is a tone mapping operator with its parameters
type Operator struct {
	Kind Kind
	Bias float64 // ALM only
}

func None() Operator         { return Operator{Kind: KindNone} }
func MaxNormalize() Operator { return Operator{Kind: KindMaxNormalize} }
func Ward() Operator         { return Operator{Kind: KindWard} }
func Reinhard() Operator     { return Operator{Kind: KindReinhard} }

// ALM returns the adaptive logarithmic operator with the given bias in (0, 1)
func ALM(bias float64) Operator { return Operator{Kind: KindALM, Bias: bias} }

// Names lists the names accepted by ParseOperator
func Names() []string {
	return []string{"none", "max", "ward", "reinhard", "alm"}
}

// ParseOperator resolves an operator name. Bias only applies to "alm" and
// falls back to DefaultBias when not positive.
func ParseOperator(name string, bias float64) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return None(), nil
	case "max":
		return MaxNormalize(), nil
	case "ward":
		return Ward(), nil
	case "reinhard":
		return Reinhard(), nil
	case "alm":
		if !(bias > 0) {
			bias = DefaultBias
		}
		if bias >= 1 {
			return Operator{}, fmt.Errorf("%w: alm bias %v outside (0, 1)", ErrUnknownOperator, bias)
		}
		return ALM(bias), nil
	default:
		return Operator{}, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
	}
}

func (op Operator) String() string {
	if op.Kind == KindALM {
		return fmt.Sprintf("alm(%g)", op.Bias)
	}
	return op.Kind.String()
}

// Apply returns a tone mapped copy of pixels; the input is left untouched
func (op Operator) Apply(pixels []core.Vec3) []core.Vec3 {
	out := make([]core.Vec3, len(pixels))
	copy(out, pixels)
	if len(out) == 0 {
		return out
	}

	switch op.Kind {
	case KindMaxNormalize:
		maxNormalize(out)
	case KindWard, KindReinhard, KindALM:
		for i := range out {
			out[i] = out[i].Multiply(LMax)
		}
		la := logAverageLuminance(out)
		switch op.Kind {
		case KindWard:
			ward(out, la)
		case KindReinhard:
			reinhard(out, la)
		default:
			adaptiveLogarithmic(out, la, op.Bias)
		}
	}
	return out
}

// LogAverageLuminance is exp(mean(ln(L + Delta))) over the buffer
func LogAverageLuminance(pixels []core.Vec3) float64 {
	if len(pixels) == 0 {
		return 0
	}
	return logAverageLuminance(pixels)
}

func logAverageLuminance(pixels []core.Vec3) float64 {
	sum := 0.0
	for _, p := range pixels {
		sum += math.Log(p.Luminance() + Delta)
	}
	return math.Exp(sum / float64(len(pixels)))
}

func maxNormalize(pixels []core.Vec3) {
	largest := 0.0
	for _, p := range pixels {
		largest = max(largest, p.X, p.Y, p.Z)
	}
	if !(largest > 0) || math.IsInf(largest, 1) {
		return
	}
	for i := range pixels {
		pixels[i] = pixels[i].Multiply(1 / largest)
	}
}

// ward applies a single scale factor matching perceived contrast
func ward(pixels []core.Vec3, la float64) {
	sf := (1.219 + math.Pow(LDMax/2, 0.4)) / (1.219 + math.Pow(la, 0.4))
	sf = math.Pow(sf, 2.5) / LDMax
	for i := range pixels {
		pixels[i] = pixels[i].Multiply(sf)
	}
}

func reinhard(pixels []core.Vec3, la float64) {
	scale := reinhardKey / la
	for i, p := range pixels {
		p = p.Multiply(scale)
		pixels[i] = core.NewVec3(p.X/(p.X+1), p.Y/(p.Y+1), p.Z/(p.Z+1))
	}
}

// Bias is Perlin's bias curve: Bias(b, 0.5) == b
func Bias(b, t float64) float64 {
	return math.Pow(t, math.Log(b)/math.Log(0.5))
}

// adaptiveLogarithmic maps each channel independently, with LMax standing in
// for the maximum world luminance
func adaptiveLogarithmic(pixels []core.Vec3, la, bias float64) {
	norm := math.Log10(LMax + 1)
	channel := func(lw float64) float64 {
		lw /= la
		ld := math.Log2(lw+1) / norm
		return ld / math.Log2(2+Bias(bias, lw/LMax)*0.8)
	}
	for i, p := range pixels {
		pixels[i] = core.NewVec3(channel(p.X), channel(p.Y), channel(p.Z))
	}
}
