package renderer

import "time"

type PassStats struct {
	// Number of rendered blocks.
	Blocks int

	// Samples traced during this pass.
	Samples uint64

	// Render time for this pass.
	RenderTime time.Duration
}

type FrameStats struct {
	// The integrator used for the frame.
	Integrator string

	// Number of parallel workers.
	Workers int

	// Individual pass stats.
	Passes []PassStats

	// Blocks per pass.
	Blocks int

	// Frame pixels.
	Pixels uint64

	// Total number of traced samples.
	Samples uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Get the average number of samples traced per second.
func (fs FrameStats) SamplesPerSecond() float64 {
	if fs.RenderTime <= 0 {
		return 0
	}
	return float64(fs.Samples) / fs.RenderTime.Seconds()
}
