package scene

import (
	"fmt"
	"math"

	"github.com/jLantxa/PathTracer/types"
)

type PrimitiveType uint8

const (
	PlanePrimitive PrimitiveType = iota
	SpherePrimitive
	TrianglePrimitive
)

func (pt PrimitiveType) String() string {
	switch pt {
	case PlanePrimitive:
		return "plane"
	case SpherePrimitive:
		return "sphere"
	case TrianglePrimitive:
		return "triangle"
	}
	return fmt.Sprintf("PrimitiveType(%d)", uint8(pt))
}

// Defines a scene primitive. The set of primitive types is closed; all
// geometric queries dispatch on Type.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType

	// Plane: a point on the plane. Sphere: the center.
	Origin types.Vec3

	// Unit normal for planes and triangles.
	Normal types.Vec3

	// Sphere radius.
	Radius float64

	// Triangle vertices A, B, C.
	Vertices [3]types.Vec3

	// The primitive material.
	Material *Material
}

// Create new plane primitive passing through origin.
func NewPlane(origin, normal types.Vec3, material *Material) *Primitive {
	return &Primitive{
		Type:     PlanePrimitive,
		Origin:   origin,
		Normal:   normal.Normalize(),
		Material: material,
	}
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float64, material *Material) *Primitive {
	return &Primitive{
		Type:     SpherePrimitive,
		Origin:   center,
		Radius:   radius,
		Material: material,
	}
}

// Create new triangle primitive. The normal follows the winding of the
// vertices: (C-A) x (B-A). A degenerate triangle has a zero normal and is
// never hit.
func NewTriangle(a, b, c types.Vec3, material *Material) *Primitive {
	return &Primitive{
		Type:     TrianglePrimitive,
		Vertices: [3]types.Vec3{a, b, c},
		Normal:   c.Sub(a).Cross(b.Sub(a)).Normalize(),
		Material: material,
	}
}

// Intersect the primitive with a ray. It returns the smallest positive
// distance along the ray where the primitive is crossed; ok is false if
// there is no such intersection.
func (p *Primitive) Intersect(ray types.Ray) (float64, bool) {
	switch p.Type {
	case PlanePrimitive:
		return intersectPlane(ray, p.Origin, p.Normal)
	case SpherePrimitive:
		return p.intersectSphere(ray)
	case TrianglePrimitive:
		return p.intersectTriangle(ray)
	}
	return 0, false
}

// Get the unit surface normal at point, oriented against the incoming
// direction so that dot(normal, dir) <= 0.
func (p *Primitive) HitNormal(point, dir types.Vec3) types.Vec3 {
	n := p.SurfaceNormal(point)
	if p.Type == SpherePrimitive {
		n = n.Normalize()
	}
	if n.Dot(dir) < 0 {
		return n
	}
	return n.Neg()
}

// Get the geometric normal at point. For spheres this is the unnormalized
// vector from the center to the point.
func (p *Primitive) SurfaceNormal(point types.Vec3) types.Vec3 {
	if p.Type == SpherePrimitive {
		return point.Sub(p.Origin)
	}
	return p.Normal
}

// Get the axis-aligned box enclosing the primitive. Planes are unbounded
// except along an axis-aligned normal.
func (p *Primitive) BBox() types.BBox {
	switch p.Type {
	case SpherePrimitive:
		r := types.Vec3{p.Radius, p.Radius, p.Radius}
		return types.BBox{p.Origin.Sub(r), p.Origin.Add(r)}
	case TrianglePrimitive:
		return types.EmptyBBox().
			Extend(p.Vertices[0]).
			Extend(p.Vertices[1]).
			Extend(p.Vertices[2])
	}

	inf := math.Inf(1)
	bbox := types.BBox{
		types.Vec3{-inf, -inf, -inf},
		types.Vec3{inf, inf, inf},
	}
	for axis := 0; axis < 3; axis++ {
		if math.Abs(p.Normal[axis]) == 1 {
			bbox[0][axis] = p.Origin[axis]
			bbox[1][axis] = p.Origin[axis]
		}
	}
	return bbox
}

func (p *Primitive) String() string {
	switch p.Type {
	case SpherePrimitive:
		return fmt.Sprintf("sphere(c: %v, r: %.3f)", p.Origin, p.Radius)
	case TrianglePrimitive:
		return fmt.Sprintf("triangle(%v, %v, %v)", p.Vertices[0], p.Vertices[1], p.Vertices[2])
	}
	return fmt.Sprintf("plane(p: %v, n: %v)", p.Origin, p.Normal)
}

// Solve t = n.(p0 - l0) / n.l for the plane through p0 with normal n.
func intersectPlane(ray types.Ray, p0, n types.Vec3) (float64, bool) {
	den := n.Dot(ray.Dir)
	if den == 0 {
		return 0, false
	}
	t := n.Dot(p0.Sub(ray.Origin)) / den
	if t <= 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return 0, false
	}
	return t, true
}

// Solve |O + tD - C|^2 = r^2.
func (p *Primitive) intersectSphere(ray types.Ray) (float64, bool) {
	oc := ray.Origin.Sub(p.Origin)
	a := ray.Dir.Dot(ray.Dir)
	b := 2 * ray.Dir.Dot(oc)
	c := oc.Dot(oc) - p.Radius*p.Radius

	x1, x2, ok := solveQuadratic(a, b, c)
	if !ok {
		return 0, false
	}

	var t float64
	switch {
	case x1 < 0 && x2 < 0:
		return 0, false
	case x1 < 0:
		t = x2
	case x2 < 0:
		t = x1
	default:
		t = math.Min(x1, x2)
	}

	if t <= 0 {
		return 0, false
	}
	return t, true
}

func (p *Primitive) intersectTriangle(ray types.Ray) (float64, bool) {
	if p.Normal.IsZero() {
		return 0, false
	}

	a, b, c := p.Vertices[0], p.Vertices[1], p.Vertices[2]
	t, ok := intersectPlane(ray, a, p.Normal)
	if !ok {
		return 0, false
	}

	q := ray.Point(t)
	if c.Sub(a).Cross(q.Sub(a)).Dot(p.Normal) < 0 ||
		a.Sub(b).Cross(q.Sub(b)).Dot(p.Normal) < 0 ||
		b.Sub(c).Cross(q.Sub(c)).Dot(p.Normal) < 0 {
		return 0, false
	}
	return t, true
}

// Solve ax^2 + bx + c = 0. Falls back to the linear solution when a is zero.
func solveQuadratic(a, b, c float64) (x1, x2 float64, ok bool) {
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}

	if a == 0 {
		if b == 0 {
			return 0, 0, false
		}
		x1 = -c / b
		return x1, x1, true
	}

	if disc == 0 {
		x1 = -b / (2 * a)
		return x1, x1, true
	}

	sqrtDisc := math.Sqrt(disc)
	return (-b + sqrtDisc) / (2 * a), (-b - sqrtDisc) / (2 * a), true
}
