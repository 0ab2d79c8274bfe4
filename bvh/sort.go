package bvh

import (
	"cmp"
	"slices"
)

// A primitive pairs a triangle with its Morton code so both travel together
// through the sort.
type Primitive struct {
	Code     MortonCode
	Triangle uint32
}

// Pair each code with the index of its triangle and sort the pairs by code.
// Equal codes are ordered by triangle index, making the result deterministic.
func SortPrimitives(codes []MortonCode) []Primitive {
	prims := make([]Primitive, len(codes))
	for i, code := range codes {
		prims[i] = Primitive{Code: code, Triangle: uint32(i)}
	}

	slices.SortFunc(prims, func(a, b Primitive) int {
		if c := cmp.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		return cmp.Compare(a.Triangle, b.Triangle)
	})
	return prims
}

// Count primitives whose code equals the code of the previous primitive.
func countDuplicateCodes(prims []Primitive) int {
	dups := 0
	for i := 1; i < len(prims); i++ {
		if prims[i].Code == prims[i-1].Code {
			dups++
		}
	}
	return dups
}
