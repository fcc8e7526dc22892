package tracer

import (
	"math"

	"github.com/jLantxa/PathTracer/types"
)

// Sample a direction from the cosine-weighted hemisphere around the unit
// normal n using two uniform samples in [0, 1).
func SampleCosineHemisphere(n types.Vec3, u1, u2 float64) types.Vec3 {
	phi := 2 * math.Pi * u1
	r := math.Sqrt(u2)
	sinPhi, cosPhi := math.Sincos(phi)

	tangent, bitangent := OrthonormalBasis(n)
	local := types.Vec3{r * cosPhi, r * sinPhi, math.Sqrt(math.Max(0, 1-u2))}

	return tangent.Mul(local[0]).
		Add(bitangent.Mul(local[1])).
		Add(n.Mul(local[2])).
		Normalize()
}

// Build two unit tangent vectors that together with the unit normal n form
// an orthonormal basis. The reference axis is +z unless n is nearly
// colinear with it, in which case +x is used.
func OrthonormalBasis(n types.Vec3) (types.Vec3, types.Vec3) {
	ref := types.Vec3{0, 0, 1}
	if math.Abs(n[2]) > 0.9 {
		ref = types.Vec3{1, 0, 0}
	}
	tangent := ref.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}
