package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jLantxa/PathTracer/renderer"
	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
	"github.com/urfave/cli"
)

func newContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestParseVec3(t *testing.T) {
	type spec struct {
		in     string
		exp    types.Vec3
		expErr bool
	}
	specs := []spec{
		{"1,2,3", types.Vec3{1, 2, 3}, false},
		{" -0.5, 1e2 ,0 ", types.Vec3{-0.5, 100, 0}, false},
		{"1,2", types.Vec3{}, true},
		{"1,2,3,4", types.Vec3{}, true},
		{"1,y,3", types.Vec3{}, true},
		{"", types.Vec3{}, true},
	}

	for index, s := range specs {
		v, err := parseVec3(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error parsing %q", index, s.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if v != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, v)
		}
	}
}

func TestRenderOptions(t *testing.T) {
	ctx := newContext(t, RenderFlags,
		"--width", "320", "--height", "200", "--spp", "8", "--depth", "5",
		"--passes", "3", "--block-width", "32", "--block-height", "16",
		"--workers", "2", "--seed", "42", "--gamma", "--jitter",
	)

	opts, err := renderOptions(ctx, &scene.Viewpoint{FOV: 45})
	if err != nil {
		t.Fatal(err)
	}

	exp := renderer.Options{
		FrameW:          320,
		FrameH:          200,
		FOV:             45,
		SamplesPerPixel: 8,
		MaxDepth:        5,
		BlockW:          32,
		BlockH:          16,
		Passes:          3,
		Workers:         2,
		Seed:            42,
		GammaCorrection: true,
		Jitter:          true,
	}
	if diff := cmp.Diff(exp, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	// An explicit --fov overrides the scene viewpoint
	ctx = newContext(t, RenderFlags, "--fov", "90")
	if opts, err = renderOptions(ctx, &scene.Viewpoint{FOV: 45}); err != nil {
		t.Fatal(err)
	}
	if opts.FOV != 90 {
		t.Fatalf("expected fov 90; got %f", opts.FOV)
	}

	ctx = newContext(t, RenderFlags)
	if opts, err = renderOptions(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if opts.FOV != 60 || opts.FrameW != 512 || opts.FrameH != 512 {
		t.Fatalf("expected default 512x512 frame with fov 60; got %dx%d fov %f", opts.FrameW, opts.FrameH, opts.FOV)
	}
}

func TestRenderOptionsValidation(t *testing.T) {
	specs := [][]string{
		{"--width", "-1"},
		{"--width", "4294967360"},
		{"--spp", "4294967297"},
		{"--spp", "0"},
		{"--passes", "0"},
		{"--fov", "180"},
		{"--block-width", "0"},
	}

	for index, args := range specs {
		if _, err := renderOptions(newContext(t, RenderFlags, args...), nil); err == nil {
			t.Fatalf("[spec %d] expected an error for %v", index, args)
		}
	}

	_, err := renderOptions(newContext(t, RenderFlags, "--width", "4294967360"), nil)
	if exp := "--width must not exceed 4294967295; got 4294967360"; err == nil || err.Error() != exp {
		t.Fatalf("expected error %q; got %v", exp, err)
	}
}

func TestSetupCamera(t *testing.T) {
	opts := renderer.DefaultOptions()
	opts.FrameW, opts.FrameH = 64, 32
	vp := &scene.Viewpoint{Eye: types.Vec3{1, 2, 3}, Facing: types.Vec3{0, 0, -1}, FOV: 60}

	cam, err := setupCamera(newContext(t, RenderFlags), vp, opts)
	if err != nil {
		t.Fatal(err)
	}
	if cam.Position() != vp.Eye {
		t.Fatalf("expected camera at viewpoint eye %v; got %v", vp.Eye, cam.Position())
	}
	if cam.Width() != 64 || cam.Height() != 32 {
		t.Fatalf("expected 64x32 camera; got %dx%d", cam.Width(), cam.Height())
	}

	ctx := newContext(t, RenderFlags, "--eye", "0,5,0", "--facing", "1,0,0")
	if cam, err = setupCamera(ctx, vp, opts); err != nil {
		t.Fatal(err)
	}
	if _, _, w := cam.Basis(); cam.Position() != (types.Vec3{0, 5, 0}) || w != (types.Vec3{1, 0, 0}) {
		t.Fatalf("expected flags to override the viewpoint; got eye %v facing %v", cam.Position(), w)
	}

	for index, args := range [][]string{{"--eye", "1,2"}, {"--facing", "0,0,0"}} {
		if _, err = setupCamera(newContext(t, RenderFlags, args...), nil, opts); err == nil {
			t.Fatalf("[spec %d] expected an error for %v", index, args)
		}
	}
}

func TestFormatFrameStats(t *testing.T) {
	stats := renderer.FrameStats{
		Integrator: "path(depth: 4)",
		Workers:    4,
		Passes: []renderer.PassStats{
			{Blocks: 4, Samples: 1000, RenderTime: time.Second},
			{Blocks: 4, Samples: 1000, RenderTime: time.Second},
		},
		Blocks:     4,
		Pixels:     100,
		Samples:    2000,
		RenderTime: 2 * time.Second,
	}

	out := formatFrameStats(stats)
	for _, exp := range []string{"TOTAL", "2000", "2s", "integrator: path(depth: 4), workers: 4, 1000 samples/s"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected stats output to contain %q; got:\n%s", exp, out)
		}
	}
}

func TestRenderFramePreset(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.png")
	preview := filepath.Join(dir, "preview.png")

	ctx := newContext(t, RenderFlags,
		"--preset", "spheres", "--width", "16", "--height", "16",
		"--spp", "2", "--depth", "2", "--block-width", "8", "--block-height", "8",
		"-o", out, "--preview", preview, "--preview-scale", "0.5",
	)
	if err := RenderFrame(ctx); err != nil {
		t.Fatal(err)
	}

	for _, filename := range []string{out, preview} {
		if _, err := os.Stat(filename); err != nil {
			t.Fatalf("expected %s to be written; got %v", filename, err)
		}
	}
}

func TestRenderFrameErrors(t *testing.T) {
	dir := t.TempDir()
	specs := [][]string{
		{},
		{"--preset", "unknown"},
		{"--preset", "spheres", "--integrator", "whitted"},
		{"--preset", "spheres", "-o", filepath.Join(dir, "frame.jpg")},
		{"--preset", "spheres", "scene.xml"},
	}

	for index, args := range specs {
		if err := RenderFrame(newContext(t, RenderFlags, args...)); err == nil {
			t.Fatalf("[spec %d] expected an error for %v", index, args)
		}
	}
}

func TestListPresets(t *testing.T) {
	ctx := newContext(t, nil)
	var buf bytes.Buffer
	ctx.App.Writer = &buf

	if err := ListPresets(ctx); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"cornell", "spheres", "triangle"} {
		if !strings.Contains(buf.String(), name) {
			t.Fatalf("expected preset list to contain %q; got:\n%s", name, buf.String())
		}
	}
}

func TestFormatSceneInfo(t *testing.T) {
	sc := scene.NewScene()
	err := sc.AddPrimitives(
		scene.NewSphere(types.Vec3{}, 1, scene.NewDiffuseMaterial(types.White)),
		scene.NewSphere(types.Vec3{0, 5, 0}, 1, scene.NewEmissiveMaterial(types.White, 10)),
		scene.NewPlane(types.Vec3{}, types.Vec3{0, 1, 0}, scene.NewDiffuseMaterial(types.White)),
	)
	if err != nil {
		t.Fatal(err)
	}
	sc.Viewpoint = &scene.Viewpoint{Facing: types.Vec3{0, 0, -1}, FOV: 60}

	out := formatSceneInfo(sc)
	for _, exp := range []string{"sphere", "plane", "triangle", "TOTAL", "fov 60.0", "bounds: unbounded"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected scene info to contain %q; got:\n%s", exp, out)
		}
	}
}

func TestFormatBounds(t *testing.T) {
	sc := scene.NewScene()
	if got := formatBounds(sc.BBox()); got != "empty" {
		t.Fatalf("expected empty bounds; got %q", got)
	}

	err := sc.AddPrimitives(
		scene.NewSphere(types.Vec3{0, 0, 0}, 1, scene.NewDiffuseMaterial(types.White)),
		scene.NewSphere(types.Vec3{4, 2, 0}, 1, scene.NewDiffuseMaterial(types.White)),
	)
	if err != nil {
		t.Fatal(err)
	}

	bbox := sc.BBox()
	exp := fmt.Sprintf("min %v, max %v, center %v", types.Vec3{-1, -1, -1}, types.Vec3{5, 3, 1}, types.Vec3{2, 1, 0})
	if got := formatBounds(bbox); got != exp {
		t.Fatalf("expected bounds %q; got %q", exp, got)
	}
}
