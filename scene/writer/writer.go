package writer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/jLantxa/PathTracer/log"
	"github.com/jLantxa/PathTracer/scene"
	"golang.org/x/image/draw"
	"golang.org/x/time/rate"
)

type Format uint8

// Supported output formats.
const (
	PPM Format = iota
	PNG
	WebP
	TGA
)

var formatExtensions = map[string]Format{
	".ppm":  PPM,
	".png":  PNG,
	".webp": WebP,
	".tga":  TGA,
}

func (f Format) String() string {
	switch f {
	case PPM:
		return "ppm"
	case PNG:
		return "png"
	case WebP:
		return "webp"
	case TGA:
		return "tga"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Select the output format from the file extension.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := formatExtensions[ext]
	if !ok {
		return PPM, fmt.Errorf("writer: unsupported image format %q", ext)
	}
	return format, nil
}

// Encode surface contents in the specified format. Channels are clamped to
// [0, 1] and quantized to 8 bits.
func Encode(w io.Writer, surface *scene.Surface, format Format) error {
	if format == PPM {
		return surface.WritePPM(w)
	}
	return encodeImage(w, surface.Image(), format)
}

func encodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PPM:
		return fmt.Errorf("writer: ppm output requires a surface")
	case PNG:
		return png.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case TGA:
		return tga.Encode(w, img)
	}
	return fmt.Errorf("writer: unsupported image format %s", format)
}

// Write surface contents to a file. The format is selected from the file
// extension.
func WriteImage(surface *scene.Surface, filename string) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}

	return writeFile(filename, func(w io.Writer) error {
		return Encode(w, surface, format)
	})
}

// Resize img by scale using Catmull-Rom filtering. Each output dimension is
// at least 1 pixel.
func Scale(img image.Image, scale float64) *image.NRGBA {
	bounds := img.Bounds()
	dstW := max(1, int(float64(bounds.Dx())*scale))
	dstH := max(1, int(float64(bounds.Dy())*scale))

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// Write a scaled copy of the surface. A scale of 1 writes the surface as-is.
// PPM output is always written at full resolution.
func WriteScaled(surface *scene.Surface, filename string, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("writer: invalid scale %g", scale)
	}

	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}
	if scale == 1 || format == PPM {
		return WriteImage(surface, filename)
	}

	img := Scale(surface.Image(), scale)
	return writeFile(filename, func(w io.Writer) error {
		return encodeImage(w, img, format)
	})
}

// Encode into a temporary file next to filename and rename it into place.
func writeFile(filename string, encode func(io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	bw := bufio.NewWriter(tmpFile)
	if err = encode(bw); err == nil {
		err = bw.Flush()
	}
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filename)
}

// An ImageListener writes the camera surface to disk. When a preview file
// is configured, it is refreshed after completed blocks, at most once per
// preview interval.
type ImageListener struct {
	logger log.Logger

	// The final image path.
	Output string

	// Optional preview path and scale.
	Preview      string
	PreviewScale float64

	previewLimiter *rate.Limiter

	err error
}

// Create a listener that writes the final image to output and, if preview is
// not empty, a progressive preview scaled by previewScale.
func NewImageListener(output, preview string, previewScale float64) *ImageListener {
	if previewScale <= 0 {
		previewScale = 1
	}
	return &ImageListener{
		logger:         log.New("image writer"),
		Output:         output,
		Preview:        preview,
		PreviewScale:   previewScale,
		previewLimiter: rate.NewLimiter(rate.Inf, 1),
	}
}

// Limit preview updates to one per interval. A zero interval refreshes the
// preview after every block.
func (l *ImageListener) SetPreviewInterval(interval time.Duration) {
	if interval <= 0 {
		l.previewLimiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	l.previewLimiter = rate.NewLimiter(rate.Every(interval), 1)
}

func (l *ImageListener) OnPartialResult(_ *scene.Scene, cam *scene.Camera) {
	if l.Preview == "" || !l.previewLimiter.Allow() {
		return
	}
	if err := WriteScaled(cam.Surface(), l.Preview, l.PreviewScale); err != nil {
		l.logger.Warningf("could not update preview %s: %v", l.Preview, err)
		l.setErr(err)
	}
}

func (l *ImageListener) OnRenderFinished(_ *scene.Scene, cam *scene.Camera) {
	if l.Output == "" {
		return
	}

	start := time.Now()
	if err := WriteImage(cam.Surface(), l.Output); err != nil {
		l.logger.Errorf("could not write %s: %v", l.Output, err)
		l.setErr(err)
		return
	}
	l.logger.Noticef("wrote %s in %d ms", l.Output, time.Since(start).Nanoseconds()/1e6)
}

// Get the first error encountered while writing images.
func (l *ImageListener) Err() error {
	return l.err
}

func (l *ImageListener) setErr(err error) {
	if l.err == nil {
		l.err = err
	}
}
