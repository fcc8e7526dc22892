package tracer

import (
	"fmt"
	"math/rand"

	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

// A unidirectional path tracer for diffuse scenes. At every hit the surface
// emission is added to the reflected radiance, which is estimated with a
// single cosine-weighted bounce. With the Lambertian BRDF (color / pi) and
// the cosine pdf (cos / pi) the estimator reduces to color * Li.
type PathTracer struct {
	// Paths are terminated after this many segments.
	MaxDepth uint32

	// Offset for bounce ray origins.
	Bias float64
}

// Create a path tracer that follows paths up to maxDepth segments.
func NewPathTracer(maxDepth uint32) *PathTracer {
	return &PathTracer{
		MaxDepth: maxDepth,
		Bias:     HitBias,
	}
}

func (pt *PathTracer) Name() string {
	return fmt.Sprintf("%s(depth: %d)", PathIntegratorName, pt.MaxDepth)
}

func (pt *PathTracer) Radiance(ray types.Ray, sc *scene.Scene, rng *rand.Rand) types.Vec3 {
	return pt.trace(0, ray, sc, rng)
}

func (pt *PathTracer) trace(depth uint32, ray types.Ray, sc *scene.Scene, rng *rand.Rand) types.Vec3 {
	if depth >= pt.MaxDepth {
		return types.Black
	}

	prim, dist, ok := sc.Intersect(ray)
	if !ok {
		return sc.Background
	}

	point := ray.Point(dist)
	normal := prim.HitNormal(point, ray.Dir)
	origin := point.Add(normal.Mul(pt.Bias))

	mat := prim.Material
	bounce := types.Ray{
		Origin: origin,
		Dir:    SampleCosineHemisphere(normal, rng.Float64(), rng.Float64()),
	}

	indirect := pt.trace(depth+1, bounce, sc, rng)
	return mat.Emission.Add(mat.Color.MulVec(indirect))
}
