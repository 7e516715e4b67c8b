package shape

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/talgya/islandgen/internal/geom"
)

// Mask uses an image as the island outline: pixels brighter than half
// intensity are land. The image is stretched over the working rectangle.
func Mask(img image.Image) Predicate {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	return func(p, size geom.Point, _ int64) bool {
		if w == 0 || h == 0 {
			return false
		}
		x := b.Min.X + clampIndex(int(p.X/size.X*w), b.Dx())
		y := b.Min.Y + clampIndex(int(p.Y/size.Y*h), b.Dy())
		gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
		return gray.Y > 127
	}
}

// LoadMask decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file into a Mask.
func LoadMask(path string) (Predicate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode mask %s: %w", path, err)
	}
	return Mask(img), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
