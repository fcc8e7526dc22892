package scene

import (
	"errors"
	"math"

	"github.com/jLantxa/PathTracer/types"
)

var (
	ErrNilPrimitive       = errors.New("scene: nil primitive")
	ErrDuplicatePrimitive = errors.New("scene: primitive already added")
	ErrNoMaterial         = errors.New("scene: no material assigned to primitive")
)

// A viewpoint suggested by a scene description. Renderers are free to
// override it.
type Viewpoint struct {
	Eye    types.Vec3
	Facing types.Vec3

	// Field of view in degrees.
	FOV float64
}

// A flat collection of primitives plus the radiance returned by rays that
// leave the scene. A scene must not be modified while it is being rendered.
type Scene struct {
	Primitives []*Primitive

	Background types.Color

	// Optional camera placement read from a scene file.
	Viewpoint *Viewpoint
}

func NewScene() *Scene {
	return &Scene{
		Primitives: make([]*Primitive, 0),
	}
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive *Primitive) error {
	if primitive == nil {
		return ErrNilPrimitive
	}
	if primitive.Material == nil {
		return ErrNoMaterial
	}
	for _, prim := range s.Primitives {
		if prim == primitive {
			return ErrDuplicatePrimitive
		}
	}
	s.Primitives = append(s.Primitives, primitive)
	return nil
}

// Add a list of primitives, stopping at the first error.
func (s *Scene) AddPrimitives(primitives ...*Primitive) error {
	for _, prim := range primitives {
		if err := s.AddPrimitive(prim); err != nil {
			return err
		}
	}
	return nil
}

// Find the nearest primitive hit by the ray. This is a linear scan over all
// primitives.
func (s *Scene) Intersect(ray types.Ray) (*Primitive, float64, bool) {
	var hit *Primitive
	tMin := math.Inf(1)
	for _, prim := range s.Primitives {
		if t, ok := prim.Intersect(ray); ok && t < tMin {
			hit = prim
			tMin = t
		}
	}

	if hit == nil {
		return nil, 0, false
	}
	return hit, tMin, true
}

// Get the box enclosing all primitives.
func (s *Scene) BBox() types.BBox {
	bbox := types.EmptyBBox()
	for _, prim := range s.Primitives {
		bbox = bbox.Union(prim.BBox())
	}
	return bbox
}

// Get the primitives with an emissive material.
func (s *Scene) Emitters() []*Primitive {
	out := make([]*Primitive, 0)
	for _, prim := range s.Primitives {
		if prim.Material.IsEmissive() {
			out = append(out, prim)
		}
	}
	return out
}
