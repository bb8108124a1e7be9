package geno

import (
	"math"
	"strings"
	"testing"

	"github.com/brentp/vcfgo"
)

const vcfFixture = `##fileformat=VCFv4.2
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	ind1	ind2
11	93000000	rs1	A	G	.	PASS	.	GT	0/1	1/1
11	95000000	rs2	C	T	.	PASS	.	GT	0/0	./.
`

func TestReadVCF(t *testing.T) {
	m, variants, err := ReadVCF(strings.NewReader(vcfFixture))
	if err != nil {
		t.Fatal(err)
	}
	n, k := m.Dims()
	if n != 2 || k != 2 {
		t.Fatalf("dims %d x %d, want 2 x 2", n, k)
	}
	if variants[0].ID != "rs1" || variants[1].Position != 95000000 {
		t.Errorf("unexpected variants: %+v", variants)
	}

	col, err := m.Column("rs1")
	if err != nil {
		t.Fatal(err)
	}
	if col[0] != 1 || col[1] != 2 {
		t.Errorf("rs1 dosages = %v, want [1 2]", col)
	}

	col, err = m.Column("rs2")
	if err != nil {
		t.Fatal(err)
	}
	if col[0] != 0 {
		t.Errorf("rs2[ind1] = %g, want 0", col[0])
	}
	if !math.IsNaN(col[1]) {
		t.Errorf("no-call must be missing, got %g", col[1])
	}
}

func TestSampleDosageDS(t *testing.T) {
	s := vcfgo.NewSampleGenotype()
	s.Fields["DS"] = "1.73"
	if got := sampleDosage(s); got != 1.73 {
		t.Errorf("DS dosage = %g, want 1.73", got)
	}

	s = vcfgo.NewSampleGenotype()
	s.GT = []int{1, 0}
	if got := sampleDosage(s); got != 1 {
		t.Errorf("GT dosage = %g, want 1", got)
	}

	s = vcfgo.NewSampleGenotype()
	s.GT = []int{-1, -1}
	if !math.IsNaN(sampleDosage(s)) {
		t.Error("no-call GT must be missing")
	}
	if !math.IsNaN(sampleDosage(nil)) {
		t.Error("absent sample must be missing")
	}
}
