package loaders

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/nfnt/resize"
)

// toByte maps a [0, 1] channel to [0, 255], clamping out-of-range values
func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

func checkBuffer(pixels []core.Vec3, width, height int) error {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return fmt.Errorf("image buffer holds %d pixels, expected %dx%d", len(pixels), width, height)
	}
	return nil
}

// WritePPM writes a row-major buffer as a plain-text P3 image
func WritePPM(w io.Writer, pixels []core.Vec3, width, height int) error {
	if err := checkBuffer(pixels, width, height); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height)
	for _, c := range pixels {
		fmt.Fprintf(bw, "%d %d %d\n", toByte(c.X), toByte(c.Y), toByte(c.Z))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}

// ToRGBA converts a row-major buffer to an 8-bit image
func ToRGBA(pixels []core.Vec3, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := pixels[y*width+x]
			img.Set(x, y, color.RGBA{R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z), A: 255})
		}
	}
	return img
}

// WritePNG encodes a row-major buffer as PNG
func WritePNG(w io.Writer, pixels []core.Vec3, width, height int) error {
	if err := checkBuffer(pixels, width, height); err != nil {
		return err
	}
	if err := png.Encode(w, ToRGBA(pixels, width, height)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveImage writes the buffer to filename, choosing PNG for a .png
// extension and PPM otherwise
func SaveImage(filename string, pixels []core.Vec3, width, height int) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".png") {
		err = WritePNG(file, pixels, width, height)
	} else {
		err = WritePPM(file, pixels, width, height)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close image file: %w", closeErr)
	}
	if err != nil {
		return err
	}

	logger.Noticef("wrote %dx%d image to %s", width, height, filename)
	return nil
}

// WritePreview encodes a PNG scaled to fit within size x size pixels,
// keeping the aspect ratio
func WritePreview(w io.Writer, pixels []core.Vec3, width, height int, size uint) error {
	if err := checkBuffer(pixels, width, height); err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("invalid preview size %d", size)
	}

	preview := resize.Thumbnail(size, size, ToRGBA(pixels, width, height), resize.Bilinear)
	if err := png.Encode(w, preview); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// PreviewPath derives the preview filename from the output filename
func PreviewPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".preview.png"
}

// SavePreview writes WritePreview output to filename
func SavePreview(filename string, pixels []core.Vec3, width, height int, size uint) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	err = WritePreview(file, pixels, width, height, size)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close preview file: %w", closeErr)
	}
	if err != nil {
		return err
	}

	logger.Infof("wrote preview to %s", filename)
	return nil
}
