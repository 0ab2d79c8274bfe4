package bvh

import "github.com/achilleasa/lbvh/types"

// A MortonCode interleaves three 10-bit quantized coordinates into the 30 low
// bits of a uint32. Codes order points along a Z-order curve.
type MortonCode uint32

// Number of quantization steps per axis.
const mortonAxisResolution = 1024

// Spread the 10 low bits of v so that two zero bits follow each original bit.
// The multiplications are expected to wrap.
func ExpandBits(v uint32) uint32 {
	v = (v * 0x00010001) & 0xFF0000FF
	v = (v * 0x00000101) & 0x0F00F00F
	v = (v * 0x00000011) & 0xC30C30C3
	v = (v * 0x00000005) & 0x49249249
	return v
}

// Calculate the 30-bit Morton code for a point inside the unit cube. Points
// outside the cube are clamped to its faces.
func EncodeMorton(p types.Vec3) MortonCode {
	xx := ExpandBits(quantize(p[0]))
	yy := ExpandBits(quantize(p[1]))
	zz := ExpandBits(quantize(p[2]))
	return MortonCode(xx*4 + yy*2 + zz)
}

// Map a unit coordinate to [0, 1023]. NaN maps to 0.
func quantize(c float32) uint32 {
	v := c * mortonAxisResolution
	if !(v > 0) {
		return 0
	}
	if v > mortonAxisResolution-1 {
		return mortonAxisResolution - 1
	}
	return uint32(v)
}
