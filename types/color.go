package types

import "math"

// Color values share the vector representation. Channels are nominally in
// [0, 1] but may exceed 1 while radiance is being accumulated.
type Color = Vec3

// Commonly used colors.
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// Clamp a channel value to the [0, 1] range.
func ColorClamp(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	}
	return x
}

// Quantize a channel value to 8 bits.
func ToColorInt(x float64) uint8 {
	return uint8(ColorClamp(x) * 0xFF)
}

// Pack color into a 32-bit ARGB value with an opaque alpha channel.
func (v Vec3) ARGB() uint32 {
	return 0xFF000000 |
		uint32(ToColorInt(v[0]))<<16 |
		uint32(ToColorInt(v[1]))<<8 |
		uint32(ToColorInt(v[2]))
}

// Apply a power-law curve to each channel.
func (v Vec3) Gamma(gamma float64) Vec3 {
	return Vec3{
		math.Pow(v[0], gamma),
		math.Pow(v[1], gamma),
		math.Pow(v[2], gamma),
	}
}

// Parse a color encoded as a RRGGBB hex value.
func ColorFromHex(value uint32) Color {
	return Color{
		float64((value>>16)&0xFF) / 255.0,
		float64((value>>8)&0xFF) / 255.0,
		float64(value&0xFF) / 255.0,
	}
}
