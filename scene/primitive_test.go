package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jLantxa/PathTracer/types"
)

var testMaterial = NewDiffuseMaterial(types.Vec3{0.5, 0.5, 0.5})

func TestSphereIntersection(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, -2}, 1, testMaterial)

	ray := types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1})
	dist, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("expected ray to hit sphere")
	}
	if dist != 1 {
		t.Fatalf("expected hit distance to be 1; got %f", dist)
	}

	// Aimed away from the sphere
	ray = types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1})
	if _, ok = sphere.Intersect(ray); ok {
		t.Fatal("expected ray pointing away from sphere to miss")
	}

	// Passes by the sphere
	ray = types.NewRay(types.Vec3{0, 2, 0}, types.Vec3{0, 0, -1})
	if _, ok = sphere.Intersect(ray); ok {
		t.Fatal("expected ray passing above the sphere to miss")
	}

	// Ray starting inside the sphere returns the exit point
	ray = types.NewRay(types.Vec3{0, 0, -2}, types.Vec3{0, 0, -1})
	dist, ok = sphere.Intersect(ray)
	if !ok || dist != 1 {
		t.Fatalf("expected ray from sphere center to exit at distance 1; got %f (hit: %t)", dist, ok)
	}
}

func TestSphereNormals(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, -2}, 2, testMaterial)
	p := types.Vec3{0, 0, 0}

	surfaceNormal := sphere.SurfaceNormal(p)
	if !surfaceNormal.Equal(types.Vec3{0, 0, 2}) {
		t.Fatalf("expected unnormalized surface normal (0, 0, 2); got %v", surfaceNormal)
	}

	hitNormal := sphere.HitNormal(p, types.Vec3{0, 0, -1})
	if !hitNormal.Equal(types.Vec3{0, 0, 1}) {
		t.Fatalf("expected hit normal (0, 0, 1); got %v", hitNormal)
	}

	// Hit from the inside
	hitNormal = sphere.HitNormal(p, types.Vec3{0, 0, 1})
	if !hitNormal.Equal(types.Vec3{0, 0, -1}) {
		t.Fatalf("expected inner hit normal (0, 0, -1); got %v", hitNormal)
	}
}

func TestPlaneIntersection(t *testing.T) {
	plane := NewPlane(types.Vec3{0, -1, 0}, types.Vec3{0, 1, 0}, testMaterial)

	ray := types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, -1, 0})
	dist, ok := plane.Intersect(ray)
	if !ok || dist != 1 {
		t.Fatalf("expected hit at distance 1; got %f (hit: %t)", dist, ok)
	}

	// Parallel ray
	ray = types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0})
	if _, ok = plane.Intersect(ray); ok {
		t.Fatal("expected parallel ray to miss plane")
	}

	// Plane behind the ray
	ray = types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0})
	if _, ok = plane.Intersect(ray); ok {
		t.Fatal("expected ray pointing away from plane to miss")
	}
}

func TestPlaneHitNormalFacesRay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		normal := types.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}
		plane := NewPlane(types.Vec3{}, normal, testMaterial)
		dir := types.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}.Normalize()

		n := plane.HitNormal(types.Vec3{}, dir)
		if n.Dot(dir) > 0 {
			t.Fatalf("expected hit normal %v to face against incoming direction %v", n, dir)
		}
		if math.Abs(n.Len()-1) > 1e-9 {
			t.Fatalf("expected unit hit normal; got length %f", n.Len())
		}
	}
}

func TestTriangleIntersection(t *testing.T) {
	tri := NewTriangle(
		types.Vec3{-1, -1, -5},
		types.Vec3{1, -1, -5},
		types.Vec3{0, 1, -5},
		testMaterial,
	)

	type spec struct {
		origin types.Vec3
		expHit bool
	}
	specs := []spec{
		{types.Vec3{0, 0, 0}, true},
		{types.Vec3{0, -0.99, 0}, true},
		{types.Vec3{2, 0, 0}, false},
		{types.Vec3{0, 1.5, 0}, false},
		{types.Vec3{-0.9, 0.5, 0}, false},
	}

	for index, s := range specs {
		ray := types.NewRay(s.origin, types.Vec3{0, 0, -1})
		dist, ok := tri.Intersect(ray)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, ok)
		}
		if ok && dist != 5 {
			t.Fatalf("[spec %d] expected hit distance 5; got %f", index, dist)
		}
	}
}

func TestTriangleWinding(t *testing.T) {
	a := types.Vec3{0, 0, 0}
	b := types.Vec3{1, 0, 0}
	c := types.Vec3{0, 1, 0}

	n1 := NewTriangle(a, b, c, testMaterial).SurfaceNormal(a)
	n2 := NewTriangle(a, c, b, testMaterial).SurfaceNormal(a)

	if !n1.Equal(n2.Neg()) {
		t.Fatalf("expected swapping B and C to flip the normal; got %v and %v", n1, n2)
	}

	// Both windings must still be hit from either side
	for _, tri := range []*Primitive{NewTriangle(a, b, c, testMaterial), NewTriangle(a, c, b, testMaterial)} {
		for _, z := range []float64{1, -1} {
			ray := types.NewRay(types.Vec3{0.25, 0.25, z}, types.Vec3{0, 0, -z})
			if _, ok := tri.Intersect(ray); !ok {
				t.Fatalf("expected %v to be hit by %v", tri, ray)
			}
		}
	}
}

func TestDegenerateTriangle(t *testing.T) {
	tri := NewTriangle(types.Vec3{0, 0, -1}, types.Vec3{1, 0, -1}, types.Vec3{2, 0, -1}, testMaterial)
	ray := types.NewRay(types.Vec3{1, 0, 0}, types.Vec3{0, 0, -1})
	if _, ok := tri.Intersect(ray); ok {
		t.Fatal("expected degenerate triangle to never be hit")
	}
}

func TestPrimitiveBBox(t *testing.T) {
	sphere := NewSphere(types.Vec3{1, 2, 3}, 1, testMaterial)
	exp := types.BBox{types.Vec3{0, 1, 2}, types.Vec3{2, 3, 4}}
	if got := sphere.BBox(); got != exp {
		t.Fatalf("expected sphere bbox %v; got %v", exp, got)
	}

	tri := NewTriangle(types.Vec3{0, 0, 0}, types.Vec3{1, -1, 2}, types.Vec3{-1, 3, 1}, testMaterial)
	exp = types.BBox{types.Vec3{-1, -1, 0}, types.Vec3{1, 3, 2}}
	if got := tri.BBox(); got != exp {
		t.Fatalf("expected triangle bbox %v; got %v", exp, got)
	}

	floor := NewPlane(types.Vec3{0, -2, 0}, types.Vec3{0, 1, 0}, testMaterial)
	bbox := floor.BBox()
	if bbox[0][1] != -2 || bbox[1][1] != -2 {
		t.Fatalf("expected axis-aligned plane bbox to be flat at y=-2; got %v", bbox)
	}
	if !bbox.IsInfinite() {
		t.Fatal("expected plane bbox to be unbounded")
	}
}
