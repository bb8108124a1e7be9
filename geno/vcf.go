package geno

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/brentp/vcfgo"
	"github.com/rgarde/locusld/variant"
)

// ReadVCF loads dosages for every record in a VCF. The DS sample field is
// used when present; otherwise dosage is the alt allele count from GT. A
// missing call (no DS, GT containing a no-call allele) becomes NaN.
//
// The returned variants carry id, chromosome and position only; association
// statistics live in the summary table, not the VCF.
func ReadVCF(r io.Reader) (*Matrix, []variant.Variant, error) {
	rdr, err := vcfgo.NewReader(r, false)
	if err != nil {
		return nil, nil, fmt.Errorf("vcf: %w", err)
	}

	numInds := len(rdr.Header.SampleNames)
	var (
		variants []variant.Variant
		columns  [][]float64
	)
	for {
		rec := rdr.Read()
		if rec == nil {
			break
		}
		col := make([]float64, numInds)
		for i, s := range rec.Samples {
			col[i] = sampleDosage(s)
		}
		columns = append(columns, col)
		variants = append(variants, variant.Variant{
			ID:         rec.Id(),
			Chromosome: rec.Chromosome,
			Position:   int(rec.Pos),
		})
	}
	if err := rdr.Error(); err != nil {
		return nil, nil, fmt.Errorf("vcf: %w", err)
	}

	// Transpose record-major columns into the row-major individuals x
	// variants layout.
	ids := make([]string, len(variants))
	for j, v := range variants {
		ids[j] = v.ID
	}
	values := make([]float64, numInds*len(variants))
	for j, col := range columns {
		for i, v := range col {
			values[i*len(variants)+j] = v
		}
	}
	m, err := NewMatrix(numInds, ids, values)
	if err != nil {
		return nil, nil, err
	}
	return m, variants, nil
}

// ReadVCFFile is ReadVCF over a file path.
func ReadVCFFile(filename string) (*Matrix, []variant.Variant, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadVCF(f)
}

func sampleDosage(s *vcfgo.SampleGenotype) float64 {
	if s == nil {
		return math.NaN()
	}
	if ds, ok := s.Fields["DS"]; ok && ds != "." {
		v, err := strconv.ParseFloat(ds, 64)
		if err == nil {
			return v
		}
	}
	if len(s.GT) == 0 {
		return math.NaN()
	}
	dosage := 0.0
	for _, allele := range s.GT {
		if allele < 0 {
			return math.NaN()
		}
		if allele > 0 {
			dosage++
		}
	}
	return dosage
}
