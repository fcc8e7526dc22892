// Package preset provides built-in scenes that can be rendered without a
// scene file.
package preset

import (
	"fmt"
	"sort"

	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

// A Builder creates a fresh copy of a built-in scene.
type Builder func() (*scene.Scene, error)

var builders = map[string]Builder{
	"cornell":  Cornell,
	"spheres":  Spheres,
	"triangle": TriangleLight,
}

var descriptions = map[string]string{
	"cornell":  "closed box with three colored spheres lit by two light balls",
	"spheres":  "diffuse sphere lit by a small light ball",
	"triangle": "closed box lit by an emissive triangle",
}

// Get the sorted list of preset names.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get a one-line description of a preset.
func Describe(name string) string {
	return descriptions[name]
}

// Build the preset with the given name.
func Get(name string) (*scene.Scene, error) {
	builder, exists := builders[name]
	if !exists {
		return nil, fmt.Errorf("preset: unknown scene %q", name)
	}
	return builder()
}

// A box of diffuse planes containing a red, a green and a blue sphere that
// are lit by two emissive spheres hanging from the ceiling.
func Cornell() (*scene.Scene, error) {
	const sRad = 30.0
	const ceiling = 6 * sRad
	const lRad = 10.0

	white := scene.NewDiffuseMaterial(types.Vec3{0.75, 0.75, 0.75})
	yellow := scene.NewDiffuseMaterial(types.Vec3{0.75, 0.75, 0.2})
	light := scene.NewEmissiveMaterial(types.Vec3{0.75, 0.75, 0.75}, 25*64)

	sc := scene.NewScene()
	sc.Viewpoint = &scene.Viewpoint{
		Eye:    types.Vec3{0, 100, -20},
		Facing: types.Vec3{0, -0.2, -1},
		FOV:    60,
	}

	err := sc.AddPrimitives(
		// floor and ceiling
		scene.NewPlane(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, white),
		scene.NewPlane(types.Vec3{0, ceiling, 0}, types.Vec3{0, -1, 0}, white),
		// side walls
		scene.NewPlane(types.Vec3{-4 * sRad, 0, 0}, types.Vec3{1, 0, 0}, yellow),
		scene.NewPlane(types.Vec3{4 * sRad, 0, 0}, types.Vec3{-1, 0, 0}, yellow),
		// back and front walls
		scene.NewPlane(types.Vec3{0, 0, -300}, types.Vec3{0, 0, 1}, white),
		scene.NewPlane(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, white),

		scene.NewSphere(types.Vec3{-3 * sRad, sRad, -200}, sRad, scene.NewDiffuseMaterial(types.Vec3{1, 0, 0})),
		scene.NewSphere(types.Vec3{0, sRad, -200 + sRad}, sRad, scene.NewDiffuseMaterial(types.Vec3{0, 1, 0})),
		scene.NewSphere(types.Vec3{3 * sRad, sRad, -200}, sRad, scene.NewDiffuseMaterial(types.Vec3{0, 0, 1})),

		scene.NewSphere(types.Vec3{-50, ceiling - lRad, -150}, lRad, light),
		scene.NewSphere(types.Vec3{50, ceiling - lRad, -150}, lRad, light),
	)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// A single diffuse sphere lit by a small emissive sphere against a black
// background.
func Spheres() (*scene.Scene, error) {
	sc := scene.NewScene()
	sc.Viewpoint = &scene.Viewpoint{
		Eye:    types.Vec3{0, 80, 0},
		Facing: types.Vec3{0, -0.1, -1},
		FOV:    60,
	}

	err := sc.AddPrimitives(
		scene.NewSphere(types.Vec3{0, 30, -170}, 30, scene.NewDiffuseMaterial(scene.DefaultDiffuse)),
		scene.NewSphere(types.Vec3{-50, 170, -100}, 10, scene.NewEmissiveMaterial(types.White, 20*64)),
	)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// A closed box lit by a triangle light below the ceiling.
func TriangleLight() (*scene.Scene, error) {
	const size = 100.0

	white := scene.NewDiffuseMaterial(types.Vec3{0.75, 0.75, 0.75})
	light := scene.NewEmissiveMaterial(types.White, 40)

	sc := scene.NewScene()
	sc.Viewpoint = &scene.Viewpoint{
		Eye:    types.Vec3{0, size, size - 1},
		Facing: types.Vec3{0, -0.3, -1},
		FOV:    70,
	}

	err := sc.AddPrimitives(
		scene.NewPlane(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, white),
		scene.NewPlane(types.Vec3{0, 2 * size, 0}, types.Vec3{0, -1, 0}, white),
		scene.NewPlane(types.Vec3{-size, 0, 0}, types.Vec3{1, 0, 0}, scene.NewDiffuseMaterial(types.Vec3{0.75, 0.25, 0.25})),
		scene.NewPlane(types.Vec3{size, 0, 0}, types.Vec3{-1, 0, 0}, scene.NewDiffuseMaterial(types.Vec3{0.25, 0.25, 0.75})),
		scene.NewPlane(types.Vec3{0, 0, -size}, types.Vec3{0, 0, 1}, white),
		scene.NewPlane(types.Vec3{0, 0, size}, types.Vec3{0, 0, -1}, white),

		scene.NewTriangle(
			types.Vec3{-30, 2*size - 1, -30},
			types.Vec3{30, 2*size - 1, -30},
			types.Vec3{0, 2*size - 1, 30},
			light,
		),
		scene.NewSphere(types.Vec3{0, 25, -20}, 25, white),
	)
	if err != nil {
		return nil, err
	}
	return sc, nil
}
