package renderer

import (
	"fmt"
	"math"
	"runtime"

	"github.com/jLantxa/PathTracer/tracer"
)

// Frames with more pixels than this are rejected.
const MaxFramePixels = 7680 * 4320

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Horizontal field of view in degrees.
	FOV float64

	// Number of samples per pixel and pass.
	SamplesPerPixel uint32

	// Maximum number of path segments.
	MaxDepth uint32

	// Block dims.
	BlockW uint32
	BlockH uint32

	// Number of progressive passes. Each pass adds SamplesPerPixel samples
	// to the running pixel average.
	Passes uint32

	// Max number of rows traced in parallel. Zero or negative values use
	// one worker per CPU.
	Workers int

	// Base seed for the per-row random number generators.
	Seed int64

	// Apply gamma correction when the render completes.
	GammaCorrection bool

	// Jitter primary rays inside each pixel.
	Jitter bool
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          512,
		FrameH:          512,
		FOV:             60,
		SamplesPerPixel: 16,
		MaxDepth:        4,
		BlockW:          tracer.DefaultBlockW,
		BlockH:          tracer.DefaultBlockH,
		Passes:          1,
		Seed:            1,
	}
}

// Check that the options describe a renderable frame.
func (o Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidFrameDims, o.FrameW, o.FrameH)
	}
	if uint64(o.FrameW)*uint64(o.FrameH) > MaxFramePixels {
		return fmt.Errorf("%w: got %dx%d", ErrFrameTooLarge, o.FrameW, o.FrameH)
	}
	if math.IsNaN(o.FOV) || o.FOV <= 0 || o.FOV >= 180 {
		return fmt.Errorf("%w: got %f", ErrInvalidFOV, o.FOV)
	}
	if o.SamplesPerPixel == 0 {
		return ErrInvalidSampleCount
	}
	if o.BlockW == 0 || o.BlockH == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidBlockDims, o.BlockW, o.BlockH)
	}
	if o.Passes == 0 {
		return ErrInvalidPassCount
	}
	return nil
}

// Get the effective number of workers.
func (o Options) NumWorkers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}
