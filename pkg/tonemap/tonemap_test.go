package tonemap

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

func gray(v float64) core.Vec3 { return core.NewVec3(v, v, v) }

func uniform(v float64, n int) []core.Vec3 {
	pixels := make([]core.Vec3, n)
	for i := range pixels {
		pixels[i] = gray(v)
	}
	return pixels
}

func TestReinhard_UniformImageMapsToKey(t *testing.T) {
	// A uniform image maps its log-average to the key, so every pixel lands
	// near 0.18 / 1.18 regardless of the input level.
	expected := reinhardKey / (reinhardKey + 1)
	for _, level := range []float64{0.05, 0.5, 3} {
		out := Reinhard().Apply(uniform(level, 4))
		for i, p := range out {
			if math.Abs(p.X-expected) > 1e-3 || p.X != p.Y || p.Y != p.Z {
				t.Errorf("level %v pixel %d: expected %.4f gray, got %v", level, i, expected, p)
			}
		}
	}
}

func TestWard_ScalesLinearly(t *testing.T) {
	pixels := []core.Vec3{gray(0.2), gray(0.4), core.NewVec3(0.1, 0.3, 0.9)}
	out := Ward().Apply(pixels)

	la := LogAverageLuminance([]core.Vec3{gray(20), gray(40), core.NewVec3(10, 30, 90)})
	sf := math.Pow((1.219+math.Pow(LDMax/2, 0.4))/(1.219+math.Pow(la, 0.4)), 2.5) / LDMax

	for i := range pixels {
		want := pixels[i].Multiply(LMax * sf)
		if out[i].Subtract(want).Length() > 1e-9 {
			t.Errorf("pixel %d: expected %v, got %v", i, want, out[i])
		}
	}
	if math.Abs(out[1].X/out[0].X-2) > 1e-12 {
		t.Errorf("Ward should preserve ratios, got %v", out[1].X/out[0].X)
	}
}

func TestALM_Monotonic(t *testing.T) {
	pixels := make([]core.Vec3, 0, 20)
	for i := 0; i < 20; i++ {
		pixels = append(pixels, gray(float64(i)*0.1))
	}

	out := ALM(DefaultBias).Apply(pixels)
	if out[0] != (core.Vec3{}) {
		t.Errorf("Black should stay black, got %v", out[0])
	}
	for i := 1; i < len(out); i++ {
		if !(out[i].X > out[i-1].X) {
			t.Errorf("Output not increasing at %d: %v <= %v", i, out[i].X, out[i-1].X)
		}
	}
}

func TestBias(t *testing.T) {
	for _, v := range []float64{0, 0.1, 0.5, 0.9, 1} {
		if got := Bias(0.5, v); math.Abs(got-v) > 1e-12 {
			t.Errorf("Bias(0.5, %v) = %v, expected identity", v, got)
		}
	}
	for _, b := range []float64{0.2, 0.7, 0.85} {
		if got := Bias(b, 0.5); math.Abs(got-b) > 1e-12 {
			t.Errorf("Bias(%v, 0.5) = %v", b, got)
		}
	}
}

func TestMaxNormalize(t *testing.T) {
	pixels := []core.Vec3{core.NewVec3(0.5, 1, 2), core.NewVec3(4, 0, 1)}
	out := MaxNormalize().Apply(pixels)

	if out[1].X != 1 || out[0].Z != 0.5 {
		t.Errorf("Expected largest channel scaled to 1, got %v", out)
	}
	if pixels[1].X != 4 {
		t.Error("Apply must not modify its input")
	}
}

func TestApply_ZeroAndEmptyBuffers(t *testing.T) {
	for _, op := range []Operator{None(), MaxNormalize(), Ward(), Reinhard(), ALM(0.7)} {
		t.Run(op.String(), func(t *testing.T) {
			if out := op.Apply(nil); len(out) != 0 {
				t.Errorf("Expected empty output, got %d pixels", len(out))
			}
			for i, p := range op.Apply(uniform(0, 3)) {
				if !p.IsFinite() || p.X < 0 {
					t.Errorf("pixel %d: expected finite non-negative, got %v", i, p)
				}
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		name     string
		bias     float64
		expected Operator
		err      bool
	}{
		{"", 0, None(), false},
		{"none", 0, None(), false},
		{"Max", 0, MaxNormalize(), false},
		{"ward", 0, Ward(), false},
		{" reinhard ", 0, Reinhard(), false},
		{"alm", 0.7, ALM(0.7), false},
		{"alm", 0, ALM(DefaultBias), false},
		{"alm", 1.5, Operator{}, true},
		{"drago", 0, Operator{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ParseOperator(tt.name, tt.bias)
			if tt.err {
				if !errors.Is(err, ErrUnknownOperator) {
					t.Errorf("Expected ErrUnknownOperator, got %v", err)
				}
				return
			}
			if err != nil || op != tt.expected {
				t.Errorf("Expected %v, got %v (%v)", tt.expected, op, err)
			}
		})
	}
}
