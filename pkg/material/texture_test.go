package material

import (
	"math"
	"testing"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

func TestCheckerTexture_Sample(t *testing.T) {
	a := core.NewVec3(1, 1, 1)
	b := core.NewVec3(0, 0, 0)
	checker := NewCheckerTexture(a, b)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"Same cell parity (0,0)", core.NewVec3(0.25, 3, 0.25), b},
		{"Same cell parity (1,1)", core.NewVec3(0.75, -2, 0.75), b},
		{"Differing parity (0,1)", core.NewVec3(0.25, 0, 0.75), a},
		{"Differing parity (1,0)", core.NewVec3(0.75, 0, 0.25), a},
		{"Negative cells (-1,-1)", core.NewVec3(-0.25, 0, -0.25), b},
		{"Negative and positive (-1,0)", core.NewVec3(-0.25, 0, 0.25), a},
		{"Far cells (4,7)", core.NewVec3(2.1, 0, 3.9), a},
		{"Huge coordinates", core.NewVec3(1e300, 0, -1e300), b},
		{"Huge and odd cell", core.NewVec3(1e300, 0, 0.75), a},
		{"NaN coordinates", core.NewVec3(math.NaN(), 0, math.NaN()), b},
		{"Infinite and odd cell", core.NewVec3(math.Inf(1), 0, -0.25), a},
		{"Both infinite", core.NewVec3(math.Inf(-1), 0, math.Inf(1)), b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Sample(tt.point); got != tt.expected {
				t.Errorf("Sample(%v): expected %v, got %v", tt.point, tt.expected, got)
			}
		})
	}
}

func TestSolidTexture_Sample(t *testing.T) {
	color := core.RGB(200, 76, 40)
	solid := NewSolidTexture(color)
	for _, p := range []core.Vec3{{}, core.NewVec3(10, -3, 0.7), core.NewVec3(-0.25, 0, 0.25)} {
		if got := solid.Sample(p); got != color {
			t.Errorf("Sample(%v): expected %v, got %v", p, color, got)
		}
	}
}
