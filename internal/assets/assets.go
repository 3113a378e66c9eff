// Package assets decodes images used as textures and window icons.
package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// IconSizes are the square sizes of the window icon set.
var IconSizes = []int{16, 32, 48}

// Decode reads the image at path. PNG, BMP and WebP are supported.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadRGBA decodes the image at path into tightly packed RGBA8 with its
// origin at (0, 0).
func LoadRGBA(path string) (*image.RGBA, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA copies img into a new RGBA image anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Icons scales img to each of sizes with nearest-neighbour sampling, so
// pixel art stays sharp.
func Icons(img image.Image, sizes ...int) []image.Image {
	icons := make([]image.Image, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 {
			continue
		}
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		icons = append(icons, dst)
	}
	return icons
}

// LoadIcons decodes the image at path and returns it at IconSizes.
func LoadIcons(path string) ([]image.Image, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return Icons(img, IconSizes...), nil
}
