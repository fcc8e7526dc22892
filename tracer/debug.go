package tracer

import (
	"math/rand"

	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

// Renders the flat diffuse color of the first surface hit by each ray.
type GeometryIntegrator struct{}

func NewGeometryIntegrator() *GeometryIntegrator {
	return &GeometryIntegrator{}
}

func (gi *GeometryIntegrator) Name() string {
	return GeometryIntegratorName
}

func (gi *GeometryIntegrator) Radiance(ray types.Ray, sc *scene.Scene, _ *rand.Rand) types.Vec3 {
	prim, _, ok := sc.Intersect(ray)
	if !ok {
		return sc.Background
	}
	return prim.Material.Color
}

// Visualizes the geometric normal of the first surface hit by each ray. Each
// normal component is remapped from [-1, 1] to [0, 1].
type NormalsIntegrator struct{}

func NewNormalsIntegrator() *NormalsIntegrator {
	return &NormalsIntegrator{}
}

func (ni *NormalsIntegrator) Name() string {
	return NormalsIntegratorName
}

func (ni *NormalsIntegrator) Radiance(ray types.Ray, sc *scene.Scene, _ *rand.Rand) types.Vec3 {
	prim, dist, ok := sc.Intersect(ray)
	if !ok {
		return sc.Background
	}
	n := prim.SurfaceNormal(ray.Point(dist)).Normalize()
	return n.Add(types.White).Mul(0.5)
}
