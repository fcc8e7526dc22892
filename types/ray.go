package types

import "fmt"

// A ray with an origin and a unit-length direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray. The direction is normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
}

// Get the point at distance t along the ray.
func (r Ray) Point(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

func (r Ray) String() string {
	return fmt.Sprintf("ray(o: (%.3f, %.3f, %.3f), d: (%.3f, %.3f, %.3f))",
		r.Origin[0], r.Origin[1], r.Origin[2],
		r.Dir[0], r.Dir[1], r.Dir[2],
	)
}
