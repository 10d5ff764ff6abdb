package loaders

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

func TestWritePPM(t *testing.T) {
	pixels := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0.5, 2, -1), core.NewVec3(0, 0, 1),
	}

	var buf bytes.Buffer
	if err := WritePPM(&buf, pixels, 2, 2); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n127 255 0\n0 0 255\n"
	if buf.String() != expected {
		t.Errorf("Unexpected PPM output:\n%s", buf.String())
	}
}

func TestWriteImage_RejectsWrongSize(t *testing.T) {
	pixels := make([]core.Vec3, 3)
	if err := WritePPM(&bytes.Buffer{}, pixels, 2, 2); err == nil {
		t.Error("WritePPM should reject a buffer of the wrong size")
	}
	if err := WritePNG(&bytes.Buffer{}, pixels, 2, 2); err == nil {
		t.Error("WritePNG should reject a buffer of the wrong size")
	}
}

func TestWritePNG(t *testing.T) {
	pixels := []core.Vec3{
		core.NewVec3(1, 1, 1), core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1),
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, pixels, 2, 2); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %v", b)
	}

	// Row-major: pixel 1 is top-right, pixel 2 bottom-left
	if r, g, b, _ := img.At(1, 0).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("Top-right should be red, got %d %d %d", r>>8, g>>8, b>>8)
	}
	if r, g, b, _ := img.At(0, 1).RGBA(); r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("Bottom-left should be green, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	pixels := []core.Vec3{core.NewVec3(0.2, 0.4, 0.6)}

	ppmPath := filepath.Join(dir, "out.ppm")
	if err := SaveImage(ppmPath, pixels, 1, 1); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(ppmPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "P3\n1 1\n255\n") {
		t.Errorf("Expected a PPM header, got %q", content)
	}

	pngPath := filepath.Join(dir, "out.PNG")
	if err := SaveImage(pngPath, pixels, 1, 1); err != nil {
		t.Fatal(err)
	}
	content, err = os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(content, []byte("\x89PNG")) {
		t.Errorf("Expected a PNG signature")
	}
}

func TestWritePreview(t *testing.T) {
	pixels := make([]core.Vec3, 40*20)
	for i := range pixels {
		pixels[i] = core.NewVec3(1, 0.5, 0)
	}

	var buf bytes.Buffer
	if err := WritePreview(&buf, pixels, 40, 20, 10); err != nil {
		t.Fatalf("WritePreview: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("Expected a 10x5 preview, got %v", b)
	}

	if err := WritePreview(&bytes.Buffer{}, pixels, 40, 20, 0); err == nil {
		t.Error("Expected an error for a zero preview size")
	}
}

func TestPreviewPath(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{"render.ppm", "render.preview.png"},
		{"out/frame.png", "out/frame.preview.png"},
		{"frame", "frame.preview.png"},
	}
	for _, tt := range tests {
		if got := PreviewPath(tt.output); got != tt.expected {
			t.Errorf("PreviewPath(%q) = %q, expected %q", tt.output, got, tt.expected)
		}
	}
}
