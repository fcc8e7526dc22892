package scene

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/jLantxa/PathTracer/types"
)

// A width x height grid of accumulated color values stored row-major in a
// single flat buffer.
type Surface struct {
	width  uint32
	height uint32
	pixels []types.Color
}

// Allocate a new surface. All pixels start out black.
func NewSurface(width, height uint32) *Surface {
	return &Surface{
		width:  width,
		height: height,
		pixels: make([]types.Color, int(width)*int(height)),
	}
}

func (s *Surface) Width() uint32 {
	return s.width
}

func (s *Surface) Height() uint32 {
	return s.height
}

// Get the color at pixel (x, y).
func (s *Surface) At(x, y uint32) types.Color {
	return s.pixels[s.index(x, y)]
}

// Set the color at pixel (x, y).
func (s *Surface) Set(x, y uint32, c types.Color) {
	s.pixels[s.index(x, y)] = c
}

// Access the underlying row-major buffer.
func (s *Surface) Pixels() []types.Color {
	return s.pixels
}

// Reset all pixels to black.
func (s *Surface) Clear() {
	for i := range s.pixels {
		s.pixels[i] = types.Black
	}
}

// Replace every pixel c with c^gamma.
func (s *Surface) ApplyGammaCorrection(gamma float64) {
	for i, c := range s.pixels {
		s.pixels[i] = c.Gamma(gamma)
	}
}

// Copy surface contents.
func (s *Surface) Clone() *Surface {
	out := NewSurface(s.width, s.height)
	copy(out.pixels, s.pixels)
	return out
}

// Quantize the surface into an 8-bit image. Channels are clamped to [0, 1].
func (s *Surface) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(s.width), int(s.height)))
	var x, y uint32
	for y = 0; y < s.height; y++ {
		for x = 0; x < s.width; x++ {
			c := s.At(x, y)
			img.SetNRGBA(int(x), int(y), color.NRGBA{
				R: types.ToColorInt(c[0]),
				G: types.ToColorInt(c[1]),
				B: types.ToColorInt(c[2]),
				A: 0xFF,
			})
		}
	}
	return img
}

// Write surface contents as a plain-text PPM (P3) image. Rows are written
// top to bottom and each pixel as an "R G B " triplet.
func (s *Surface) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", s.width, s.height, 255); err != nil {
		return err
	}

	var x, y uint32
	for y = 0; y < s.height; y++ {
		for x = 0; x < s.width; x++ {
			c := s.At(x, y)
			_, err := fmt.Fprintf(bw, "%d %d %d ", types.ToColorInt(c[0]), types.ToColorInt(c[1]), types.ToColorInt(c[2]))
			if err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func (s *Surface) index(x, y uint32) int {
	return int(y)*int(s.width) + int(x)
}
