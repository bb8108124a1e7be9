// Package sim generates synthetic loci for tests and demos: a variant table
// with a single association peak and a dosage matrix whose correlation with
// the peak decays with distance.
package sim

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hhcho/frand"
	"github.com/rgarde/locusld/geno"
	"github.com/rgarde/locusld/variant"
)

const prgBufSize = 1 << 16

// LocusParams configures one synthetic locus. The same params and seed
// always produce the same tables.
type LocusParams struct {
	NumInds     int
	NumVars     int
	Chromosome  string
	Start       int     // position of the first variant, base pairs
	Spacing     int     // distance between adjacent variants
	PeakIndex   int     // which variant carries the association peak
	DecayBP     float64 // LD half-range: correlation halves every DecayBP
	MissingRate float64
	Seed        uint64
}

// DefaultParams mirrors the scale of a typical regional association plot.
func DefaultParams() LocusParams {
	return LocusParams{
		NumInds:     500,
		NumVars:     200,
		Chromosome:  "11",
		Start:       92_000_000,
		Spacing:     25_000,
		PeakIndex:   100,
		DecayBP:     500_000,
		MissingRate: 0.01,
		Seed:        42,
	}
}

// Locus generates the variant table and dosage matrix for p.
func Locus(p LocusParams) (*variant.Table, *geno.Matrix, error) {
	if p.NumInds < 2 || p.NumVars < 1 {
		return nil, nil, fmt.Errorf("sim: need at least 2 individuals and 1 variant, got %d x %d", p.NumInds, p.NumVars)
	}
	if p.PeakIndex < 0 || p.PeakIndex >= p.NumVars {
		return nil, nil, fmt.Errorf("sim: peak index %d out of range", p.PeakIndex)
	}

	seed := make([]byte, 32)
	binary.LittleEndian.PutUint64(seed, p.Seed)
	rng := frand.NewCustom(seed, prgBufSize, 20)

	freqs := make([]float64, p.NumVars)
	for j := range freqs {
		freqs[j] = 0.05 + 0.9*rng.Float64()
	}

	// Two peak haplotype alleles per individual; nearby variants copy them
	// with a probability that decays with distance, which is what produces
	// the LD block around the peak.
	peakHap := make([][2]bool, p.NumInds)
	for i := range peakHap {
		peakHap[i][0] = rng.Float64() < freqs[p.PeakIndex]
		peakHap[i][1] = rng.Float64() < freqs[p.PeakIndex]
	}

	variants := make([]variant.Variant, p.NumVars)
	values := make([]float64, p.NumInds*p.NumVars)
	for j := 0; j < p.NumVars; j++ {
		pos := p.Start + j*p.Spacing
		dist := math.Abs(float64(pos - (p.Start + p.PeakIndex*p.Spacing)))
		rho := math.Exp2(-dist / p.DecayBP)

		for i := 0; i < p.NumInds; i++ {
			var dosage float64
			for h := 0; h < 2; h++ {
				var allele bool
				if rng.Float64() < rho {
					allele = peakHap[i][h]
				} else {
					allele = rng.Float64() < freqs[j]
				}
				if allele {
					dosage++
				}
			}
			if rng.Float64() < p.MissingRate {
				dosage = math.NaN()
			}
			values[i*p.NumVars+j] = dosage
		}

		stat := 1 + 11*rho*rho + 0.5*rng.Float64()
		variants[j] = variant.Variant{
			ID:         fmt.Sprintf("rs%d_%d", p.Seed, j),
			Chromosome: p.Chromosome,
			Position:   pos,
			Stat:       stat,
		}
	}

	ids := make([]string, p.NumVars)
	for j, v := range variants {
		ids[j] = v.ID
	}
	m, err := geno.NewMatrix(p.NumInds, ids, values)
	if err != nil {
		return nil, nil, err
	}
	return variant.NewTable(variants), m, nil
}
