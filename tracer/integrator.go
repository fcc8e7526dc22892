package tracer

import (
	"fmt"
	"math/rand"

	"github.com/jLantxa/PathTracer/scene"
	"github.com/jLantxa/PathTracer/types"
)

// Offset applied along the hit normal to secondary ray origins so they do
// not immediately re-intersect the surface they leave from.
const HitBias = 1e-4

// An Integrator estimates the radiance arriving along a ray. Implementations
// must be safe for concurrent use as long as each caller provides its own
// random number generator.
type Integrator interface {
	// Get the integrator name.
	Name() string

	// Estimate the radiance carried by ray.
	Radiance(ray types.Ray, sc *scene.Scene, rng *rand.Rand) types.Vec3
}

// Available integrator names.
const (
	PathIntegratorName     = "path"
	GeometryIntegratorName = "geometry"
	NormalsIntegratorName  = "normals"
)

// Get the list of integrator names accepted by NewIntegrator.
func IntegratorNames() []string {
	return []string{PathIntegratorName, GeometryIntegratorName, NormalsIntegratorName}
}

// Create an integrator by name. maxDepth is only used by the path tracer.
func NewIntegrator(name string, maxDepth uint32) (Integrator, error) {
	switch name {
	case PathIntegratorName:
		return NewPathTracer(maxDepth), nil
	case GeometryIntegratorName:
		return NewGeometryIntegrator(), nil
	case NormalsIntegratorName:
		return NewNormalsIntegrator(), nil
	}
	return nil, fmt.Errorf("tracer: unknown integrator %q", name)
}
