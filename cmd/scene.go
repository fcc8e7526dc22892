package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/scene/preset"
	"github.com/jLantxa/PathTracer/scene/reader"
	"github.com/jLantxa/PathTracer/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Load the scene named by --preset or by the first command argument.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	name := ctx.String("preset")
	switch {
	case name != "" && ctx.NArg() != 0:
		return nil, errors.New("specify either a scene file or --preset, not both")
	case name != "":
		logger.Noticef("building preset scene %q", name)
		return preset.Get(name)
	case ctx.NArg() != 1:
		return nil, errors.New("missing scene file argument")
	}

	sceneFile := ctx.Args().First()
	logger.Noticef("reading scene: %s", sceneFile)
	return reader.ReadScene(sceneFile)
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", formatSceneInfo(sc))
	return nil
}

// List the built-in scenes.
func ListPresets(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Description"})
	for _, name := range preset.Names() {
		table.Append([]string{name, preset.Describe(name)})
	}
	table.Render()

	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func formatSceneInfo(sc *scene.Scene) string {
	counts := make(map[scene.PrimitiveType]int)
	emissive := make(map[scene.PrimitiveType]int)
	for _, prim := range sc.Primitives {
		counts[prim.Type]++
		if prim.Material.IsEmissive() {
			emissive[prim.Type]++
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Primitive", "Count", "Emissive"})
	for _, pt := range []scene.PrimitiveType{scene.PlanePrimitive, scene.SpherePrimitive, scene.TrianglePrimitive} {
		table.Append([]string{pt.String(), fmt.Sprintf("%d", counts[pt]), fmt.Sprintf("%d", emissive[pt])})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", len(sc.Primitives)), fmt.Sprintf("%d", len(sc.Emitters()))})
	table.Render()

	fmt.Fprintf(&buf, "bounds: %s\n", formatBounds(sc.BBox()))
	fmt.Fprintf(&buf, "background: %v\n", sc.Background)
	if vp := sc.Viewpoint; vp != nil {
		fmt.Fprintf(&buf, "camera: eye %v, facing %v, fov %.1f\n", vp.Eye, vp.Facing, vp.FOV)
	}
	return buf.String()
}

func formatBounds(bbox types.BBox) string {
	switch {
	case bbox.IsEmpty():
		return "empty"
	case bbox.IsInfinite():
		return "unbounded"
	}
	return fmt.Sprintf("min %v, max %v, center %v", bbox[0], bbox[1], bbox.Center())
}
