package renderer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jLantxa/PathTracer/log"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/tracer"
	"github.com/jLantxa/PathTracer/types"
	"golang.org/x/sync/errgroup"
)

type Renderer interface {
	// Render frame into the camera surface. The call blocks until every
	// pass is complete or ctx is cancelled.
	Render(ctx context.Context) error

	// Get render statistics.
	Stats() FrameStats
}

// The default renderer splits the frame into blocks and traces the rows of
// each block in parallel.
type defaultRenderer struct {
	logger log.Logger

	scene      *scene.Scene
	camera     *scene.Camera
	scheduler  tracer.BlockScheduler
	integrator tracer.Integrator
	listeners  []Listener

	options Options
	workers int

	stats FrameStats
}

// Create a new renderer. A nil scheduler selects center-out scheduling with
// the block dims from opts and a nil integrator selects a path tracer with
// opts.MaxDepth. The camera gamma correction flag is set from opts.
func NewDefault(sc *scene.Scene, cam *scene.Camera, scheduler tracer.BlockScheduler, integrator tracer.Integrator, opts Options, listeners ...Listener) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if cam == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if cam.Width() != opts.FrameW || cam.Height() != opts.FrameH {
		return nil, fmt.Errorf("%w: camera is %dx%d, frame is %dx%d", ErrCameraResolution, cam.Width(), cam.Height(), opts.FrameW, opts.FrameH)
	}

	if scheduler == nil {
		scheduler = tracer.NewCenterOutScheduler(opts.BlockW, opts.BlockH)
	}
	if integrator == nil {
		integrator = tracer.NewPathTracer(opts.MaxDepth)
	}
	cam.SetGammaCorrectionEnabled(opts.GammaCorrection)

	return &defaultRenderer{
		logger:     log.New("renderer"),
		scene:      sc,
		camera:     cam,
		scheduler:  scheduler,
		integrator: integrator,
		listeners:  listeners,
		options:    opts,
		workers:    opts.NumWorkers(),
	}, nil
}

// Render a scene through cam using the default scheduler and integrator.
func Render(ctx context.Context, sc *scene.Scene, cam *scene.Camera, opts Options, listeners ...Listener) error {
	r, err := NewDefault(sc, cam, nil, nil, opts, listeners...)
	if err != nil {
		return err
	}
	return r.Render(ctx)
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) Render(ctx context.Context) error {
	start := time.Now()
	frameW, frameH := r.camera.Width(), r.camera.Height()
	blocks := r.scheduler.Schedule(frameW, frameH)

	r.stats = FrameStats{
		Integrator: r.integrator.Name(),
		Workers:    r.workers,
		Passes:     make([]PassStats, 0, r.options.Passes),
		Blocks:     len(blocks),
		Pixels:     uint64(frameW) * uint64(frameH),
	}

	r.logger.Infof("rendering %dx%d frame: %d blocks, %d pass(es), %d spp, integrator %s, %d workers",
		frameW, frameH, len(blocks), r.options.Passes, r.options.SamplesPerPixel, r.stats.Integrator, r.workers)

	r.camera.Surface().Clear()
	for pass := uint32(0); pass < r.options.Passes; pass++ {
		passStart := time.Now()
		for _, block := range blocks {
			if err := ctx.Err(); err != nil {
				return r.interrupted(err)
			}
			if err := r.renderBlock(ctx, pass, block); err != nil {
				return r.interrupted(err)
			}
			r.logger.Debugf("pass %d: block %v done", pass, block)

			for _, listener := range r.listeners {
				listener.OnPartialResult(r.scene, r.camera)
			}
		}

		passSamples := r.stats.Pixels * uint64(r.options.SamplesPerPixel)
		r.stats.Samples += passSamples
		r.stats.Passes = append(r.stats.Passes, PassStats{
			Blocks:     len(blocks),
			Samples:    passSamples,
			RenderTime: time.Since(passStart),
		})
		r.logger.Infof("pass %d/%d completed in %d ms", pass+1, r.options.Passes, time.Since(passStart).Nanoseconds()/1e6)
	}

	r.camera.OnRenderFinished()
	r.stats.RenderTime = time.Since(start)

	for _, listener := range r.listeners {
		listener.OnRenderFinished(r.scene, r.camera)
	}
	return nil
}

// Trace all block rows in parallel. Each row task owns a disjoint range of
// surface cells and its own random number generator.
func (r *defaultRenderer) renderBlock(ctx context.Context, pass uint32, block tracer.Block) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)

	for y := block.Top; y < block.Bottom; y++ {
		row := y
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(rowSeed(r.options.Seed, pass, block.Left, row)))
			r.renderRow(pass, block, row, rng)
			return nil
		})
	}
	return group.Wait()
}

func (r *defaultRenderer) renderRow(pass uint32, block tracer.Block, y uint32, rng *rand.Rand) {
	surface := r.camera.Surface()
	weight := 1 / float64(pass+1)
	for x := block.Left; x < block.Right; x++ {
		sample := r.samplePixel(x, y, rng)
		mean := surface.At(x, y)
		surface.Set(x, y, mean.Add(sample.Sub(mean).Mul(weight)))
	}
}

// Average SamplesPerPixel radiance estimates for pixel (x, y).
func (r *defaultRenderer) samplePixel(x, y uint32, rng *rand.Rand) types.Vec3 {
	var sum types.Vec3
	for s := uint32(0); s < r.options.SamplesPerPixel; s++ {
		var ray types.Ray
		if r.options.Jitter {
			ray = r.camera.RayThroughPoint(float64(x)+rng.Float64(), float64(y)+rng.Float64())
		} else {
			ray = r.camera.RayToPixel(x, y)
		}
		sum = sum.Add(r.integrator.Radiance(ray, r.scene, rng))
	}
	return sum.Mul(1 / float64(r.options.SamplesPerPixel))
}

func (r *defaultRenderer) interrupted(err error) error {
	r.logger.Warningf("render interrupted: %v", err)
	return fmt.Errorf("%w: %w", ErrInterrupted, err)
}

// Derive a row seed from the base seed, the pass and the pixel coordinates
// of the row's first pixel.
func rowSeed(seed int64, pass, blockLeft, row uint32) int64 {
	h := splitmix64(uint64(seed))
	h = splitmix64(h ^ uint64(pass))
	h = splitmix64(h ^ uint64(blockLeft))
	h = splitmix64(h ^ uint64(row))
	return int64(h)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
