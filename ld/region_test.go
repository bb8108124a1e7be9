package ld

import (
	"testing"

	"github.com/rgarde/locusld/variant"
)

func TestSelectClosedInterval(t *testing.T) {
	tbl := variant.NewTable([]variant.Variant{
		{ID: "1", Chromosome: "11", Position: 93_000_000, Stat: 3},
		{ID: "2", Chromosome: "11", Position: 95_000_000, Stat: 8},
		{ID: "3", Chromosome: "12", Position: 95_000_000, Stat: 9},
	})
	got := Select(tbl, Region{Chromosome: "11", Start: 94_000_000, End: 98_000_000})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only variant 2, got %v", got)
	}
}

func TestSelectInclusiveBounds(t *testing.T) {
	tbl := variant.NewTable([]variant.Variant{
		{ID: "lo", Chromosome: "1", Position: 100},
		{ID: "mid", Chromosome: "1", Position: 150},
		{ID: "hi", Chromosome: "1", Position: 200},
		{ID: "out", Chromosome: "1", Position: 201},
	})
	got := Select(tbl, Region{Chromosome: "1", Start: 100, End: 200})
	if len(got) != 3 {
		t.Fatalf("expected 3 variants inside [100,200], got %d", len(got))
	}
	if got[0].ID != "lo" || got[2].ID != "hi" {
		t.Errorf("bounds must be inclusive and order preserved: %v", got)
	}
}

func TestSelectEmptyIsNotError(t *testing.T) {
	tbl := variant.NewTable([]variant.Variant{
		{ID: "a", Chromosome: "2", Position: 500},
	})
	got := Select(tbl, Region{Chromosome: "3", Start: 0, End: 1000})
	if len(got) != 0 {
		t.Fatalf("expected empty selection, got %v", got)
	}
}
