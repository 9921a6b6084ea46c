package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Image is a linear RGB raster
type Image struct {
	Width  int
	Height int
	Pix    []core.Vec3 // Row-major, Pix[y*Width+x]
}

// NewImage creates a black image
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]core.Vec3, width*height)}
}

// At returns the color of pixel (x, y)
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pix[y*img.Width+x]
}

// Set stores the color of pixel (x, y)
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pix[y*img.Width+x] = c
}

// LinearToSRGB applies the sRGB transfer curve to a linear value in [0, 1]
func LinearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// toByte clamps, encodes and quantizes one channel
func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(LinearToSRGB(v) * 255))
}

// ToRGBA converts the raster to 8-bit sRGB
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z), A: 255})
		}
	}
	return out
}

// EncodePNG writes the image as an sRGB PNG
func (img *Image) EncodePNG(w io.Writer) error {
	return png.Encode(w, img.ToRGBA())
}

// WritePNG saves the image to path as an sRGB PNG
func (img *Image) WritePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := img.EncodePNG(file); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}
