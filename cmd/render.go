package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/jLantxa/PathTracer/renderer"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/scene/writer"
	"github.com/jLantxa/PathTracer/tracer"
	"github.com/jLantxa/PathTracer/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Flags accepted by the render command.
var RenderFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: 512,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 512,
		Usage: "frame height",
	},
	cli.Float64Flag{
		Name:  "fov",
		Value: 60,
		Usage: "horizontal field of view in degrees (overrides the scene camera)",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: 16,
		Usage: "samples per pixel and pass",
	},
	cli.IntFlag{
		Name:  "depth",
		Value: 4,
		Usage: "max number of path segments",
	},
	cli.IntFlag{
		Name:  "passes",
		Value: 1,
		Usage: "number of progressive passes",
	},
	cli.IntFlag{
		Name:  "block-width",
		Value: int(tracer.DefaultBlockW),
		Usage: "block width",
	},
	cli.IntFlag{
		Name:  "block-height",
		Value: int(tracer.DefaultBlockH),
		Usage: "block height",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: 0,
		Usage: "max rows traced in parallel (0 = one per CPU)",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: 1,
		Usage: "base seed for the random number generators",
	},
	cli.BoolFlag{
		Name:  "gamma",
		Usage: "apply gamma correction to the final frame",
	},
	cli.BoolFlag{
		Name:  "jitter",
		Usage: "jitter primary rays inside each pixel",
	},
	cli.StringFlag{
		Name:  "integrator",
		Value: tracer.PathIntegratorName,
		Usage: "integrator to use (" + strings.Join(tracer.IntegratorNames(), ", ") + ")",
	},
	cli.StringFlag{
		Name:  "preset",
		Usage: "render a built-in scene instead of a scene file",
	},
	cli.StringFlag{
		Name:  "eye",
		Usage: "camera position as x,y,z (overrides the scene camera)",
	},
	cli.StringFlag{
		Name:  "facing",
		Usage: "camera facing direction as x,y,z (overrides the scene camera)",
	},
	cli.Float64Flag{
		Name:  "yaw",
		Usage: "rotate the camera around the world up axis (degrees)",
	},
	cli.Float64Flag{
		Name:  "pitch",
		Usage: "tilt the camera up or down (degrees)",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "frame.ppm",
		Usage: "image filename for the rendered frame (.ppm, .png, .webp or .tga)",
	},
	cli.StringFlag{
		Name:  "preview",
		Usage: "image filename that is rewritten after each rendered block",
	},
	cli.Float64Flag{
		Name:  "preview-scale",
		Value: 1,
		Usage: "scale factor for the preview image",
	},
	cli.DurationFlag{
		Name:  "preview-interval",
		Usage: "min time between preview updates (0 = after every block)",
	},
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	opts, err := renderOptions(ctx, sc.Viewpoint)
	if err != nil {
		return err
	}

	cam, err := setupCamera(ctx, sc.Viewpoint, opts)
	if err != nil {
		return err
	}

	integrator, err := tracer.NewIntegrator(ctx.String("integrator"), opts.MaxDepth)
	if err != nil {
		return err
	}

	if _, err = writer.FormatFromFilename(ctx.String("out")); err != nil {
		return err
	}
	imgListener := writer.NewImageListener(ctx.String("out"), ctx.String("preview"), ctx.Float64("preview-scale"))
	imgListener.SetPreviewInterval(ctx.Duration("preview-interval"))

	scheduler := tracer.NewCenterOutScheduler(opts.BlockW, opts.BlockH)
	r, err := renderer.NewDefault(sc, cam, scheduler, integrator, opts, imgListener)
	if err != nil {
		return err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering %s", cam)
	if err = r.Render(renderCtx); err != nil {
		return err
	}
	if err = imgListener.Err(); err != nil {
		return err
	}

	logger.Noticef("wrote frame to %s", ctx.String("out"))
	displayFrameStats(r.Stats())
	return nil
}

// Build render options from the command flags. The scene viewpoint supplies
// the field of view unless --fov is given.
func renderOptions(ctx *cli.Context, vp *scene.Viewpoint) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	for _, name := range []string{"width", "height", "spp", "depth", "passes", "block-width", "block-height"} {
		value := int64(ctx.Int(name))
		if value < 0 {
			return opts, fmt.Errorf("--%s must not be negative", name)
		}
		if value > math.MaxUint32 {
			return opts, fmt.Errorf("--%s must not exceed %d; got %d", name, uint32(math.MaxUint32), value)
		}
	}

	opts.FrameW = uint32(ctx.Int("width"))
	opts.FrameH = uint32(ctx.Int("height"))
	opts.FOV = ctx.Float64("fov")
	if vp != nil && vp.FOV > 0 && !ctx.IsSet("fov") {
		opts.FOV = vp.FOV
	}
	opts.SamplesPerPixel = uint32(ctx.Int("spp"))
	opts.MaxDepth = uint32(ctx.Int("depth"))
	opts.Passes = uint32(ctx.Int("passes"))
	opts.BlockW = uint32(ctx.Int("block-width"))
	opts.BlockH = uint32(ctx.Int("block-height"))
	opts.Workers = ctx.Int("workers")
	opts.Seed = ctx.Int64("seed")
	opts.GammaCorrection = ctx.Bool("gamma")
	opts.Jitter = ctx.Bool("jitter")

	return opts, opts.Validate()
}

// Create the camera. Explicit --eye and --facing flags take precedence over
// the scene viewpoint; --yaw and --pitch are applied last.
func setupCamera(ctx *cli.Context, vp *scene.Viewpoint, opts renderer.Options) (*scene.Camera, error) {
	var eye types.Vec3
	facing := types.Vec3{0, 0, -1}
	if vp != nil {
		eye, facing = vp.Eye, vp.Facing
	}

	var err error
	if value := ctx.String("eye"); value != "" {
		if eye, err = parseVec3(value); err != nil {
			return nil, fmt.Errorf("invalid --eye: %w", err)
		}
	}
	if value := ctx.String("facing"); value != "" {
		if facing, err = parseVec3(value); err != nil {
			return nil, fmt.Errorf("invalid --facing: %w", err)
		}
		if facing.IsZero() {
			return nil, errors.New("invalid --facing: direction must not be zero")
		}
	}

	cam := scene.NewCameraAt(opts.FrameW, opts.FrameH, opts.FOV, eye, facing)
	if yaw, pitch := ctx.Float64("yaw"), ctx.Float64("pitch"); yaw != 0 || pitch != 0 {
		cam.Orient(yaw, pitch)
	}
	return cam, nil
}

// Parse a vector in "x,y,z" form.
func parseVec3(value string) (types.Vec3, error) {
	var v types.Vec3
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected 3 comma-separated components; got %q", value)
	}
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return v, fmt.Errorf("could not parse component %d of %q", i, value)
		}
		v[i] = f
	}
	return v, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	logger.Noticef("frame statistics\n%s", formatFrameStats(stats))
}

func formatFrameStats(stats renderer.FrameStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Blocks", "Samples", "Render time"})
	for index, pass := range stats.Passes {
		table.Append([]string{
			fmt.Sprintf("%d", index+1),
			fmt.Sprintf("%d", pass.Blocks),
			fmt.Sprintf("%d", pass.Samples),
			pass.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", stats.Blocks*len(stats.Passes)),
		fmt.Sprintf("%d", stats.Samples),
		stats.RenderTime.String(),
	})
	table.Render()

	fmt.Fprintf(&buf, "integrator: %s, workers: %d, %.0f samples/s\n", stats.Integrator, stats.Workers, stats.SamplesPerSecond())
	return buf.String()
}
