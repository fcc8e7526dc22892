package types

import "math"

// An axis-aligned bounding box stored as its min and max corners.
type BBox [2]Vec3

// A box that contains nothing. Extending it with any box yields that box.
func EmptyBBox() BBox {
	inf := math.Inf(1)
	return BBox{
		Vec3{inf, inf, inf},
		Vec3{-inf, -inf, -inf},
	}
}

// Grow box so it also encloses b2.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{
		MinVec3(b[0], b2[0]),
		MaxVec3(b[1], b2[1]),
	}
}

// Grow box so it also encloses point p.
func (b BBox) Extend(p Vec3) BBox {
	return BBox{
		MinVec3(b[0], p),
		MaxVec3(b[1], p),
	}
}

// Check whether the box has no volume and no points.
func (b BBox) IsEmpty() bool {
	return b[0][0] > b[1][0] || b[0][1] > b[1][1] || b[0][2] > b[1][2]
}

// Check whether any of the box extents is unbounded.
func (b BBox) IsInfinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(b[0][i], 0) || math.IsInf(b[1][i], 0) {
			return true
		}
	}
	return false
}

// Get the box center.
func (b BBox) Center() Vec3 {
	return b[0].Add(b[1]).Mul(0.5)
}
