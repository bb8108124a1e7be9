package ld

import "github.com/rgarde/locusld/variant"

// Peak returns the variant with the maximum association statistic. Ties are
// broken by first occurrence in the input ordering, so the result is
// deterministic for any input. An empty input is an explicit error, never a
// silent zero value.
func Peak(variants []variant.Variant) (variant.Variant, error) {
	if len(variants) == 0 {
		return variant.Variant{}, &EmptyInputError{Op: "ld.Peak"}
	}
	best := variants[0]
	for _, v := range variants[1:] {
		if v.Stat > best.Stat {
			best = v
		}
	}
	return best, nil
}
