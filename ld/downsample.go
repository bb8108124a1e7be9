package ld

import (
	"fmt"
	"math"

	"github.com/rgarde/locusld/variant"
)

// Downsample returns k indices evenly spaced across [0, n), rounded from a
// linear spacing between the first and last index. For k >= 2 the first and
// last index are always included; k == n is the identity. The result is
// strictly increasing and deterministic.
func Downsample(n, k int) ([]int, error) {
	if n == 0 {
		return nil, &EmptyInputError{Op: "ld.Downsample"}
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("ld.Downsample: k=%d out of range [1,%d]", k, n)
	}
	if k == 1 {
		return []int{0}, nil
	}
	idx := make([]int, k)
	step := float64(n-1) / float64(k-1)
	for i := range idx {
		idx[i] = int(math.Round(float64(i) * step))
	}
	return idx, nil
}

// DownsampleVariants applies Downsample to an ordered variant slice,
// preserving relative order.
func DownsampleVariants(variants []variant.Variant, k int) ([]variant.Variant, error) {
	idx, err := Downsample(len(variants), k)
	if err != nil {
		return nil, err
	}
	out := make([]variant.Variant, len(idx))
	for i, j := range idx {
		out[i] = variants[j]
	}
	return out, nil
}
