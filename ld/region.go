// Package ld computes linkage-disequilibrium structure around a GWAS
// association peak: reference-variant r squared profiles and all-pairs
// correlation matrices over dosage columns, with pairwise-complete handling
// of missing genotypes.
package ld

import (
	"fmt"

	"github.com/rgarde/locusld/variant"
)

// Region is a locus: a chromosome and a closed base-pair interval.
type Region struct {
	Chromosome string
	Start      int
	End        int
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chromosome, r.Start, r.End)
}

// Contains reports whether v falls on the region's chromosome within
// [Start, End]. Both bounds are inclusive.
func (r Region) Contains(v variant.Variant) bool {
	return v.Chromosome == r.Chromosome && v.Position >= r.Start && v.Position <= r.End
}

// Select returns the ordered subsequence of tbl inside the region. The input
// ordering is preserved. An empty result is not an error.
func Select(tbl *variant.Table, r Region) []variant.Variant {
	var out []variant.Variant
	for _, v := range tbl.Variants {
		if r.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
