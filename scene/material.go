package scene

import "github.com/jLantxa/PathTracer/types"

// Default reflectance for surfaces that do not specify a material.
var DefaultDiffuse = types.Vec3{0.75, 0.75, 0.75}

// Defines a scene material.
type Material struct {
	// Diffuse reflectance; each channel in [0, 1].
	Color types.Vec3

	// Emitted radiance (if material is light).
	Emission types.Vec3
}

// Create a non-emissive diffuse material.
func NewDiffuseMaterial(color types.Vec3) *Material {
	return &Material{Color: color}
}

// Create a diffuse material that also emits light. The emitted radiance is
// the material color scaled by strength.
func NewEmissiveMaterial(color types.Vec3, strength float64) *Material {
	return &Material{
		Color:    color,
		Emission: color.Mul(strength),
	}
}

// Returns true if the material emits light.
func (m *Material) IsEmissive() bool {
	return m.Emission.MaxComponent() > 0
}
