// Package locusld ties the pieces together: select a region, pick the peak,
// correlate dosage columns, and shape the results handed to plotting.
package locusld

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rgarde/locusld/geno"
	"github.com/rgarde/locusld/ld"
	"github.com/rgarde/locusld/variant"
)

// Config collects one analysis run. Fields map 1:1 onto the TOML config file
// read by the CLI; flags can override individual entries.
type Config struct {
	VariantFile string `toml:"variant_file"`
	StatColumn  string `toml:"stat_column"`

	GenoFile   string `toml:"geno_file"`
	GenoFormat string `toml:"geno_format"` // tsv, csv, bin, byte, vcf
	NumInds    int    `toml:"num_inds"`    // bin and byte formats only

	Chromosome  string `toml:"chrom"`
	RegionStart int    `toml:"region_start"`
	RegionEnd   int    `toml:"region_end"`
	RefVariant  string `toml:"ref_variant"` // empty = pick the peak

	MatrixSize int  `toml:"matrix_size"`
	Squared    bool `toml:"squared"`

	MafLowerBound   float64 `toml:"maf_lb"`
	MissUpperBound  float64 `toml:"miss_ub"`
	LocalNumThreads int     `toml:"local_num_threads"`
	MemoryLimit     uint64  `toml:"memory_limit"`

	OutDir string `toml:"output_dir"`
}

// DefaultConfig returns the knobs a run can leave unset.
func DefaultConfig() Config {
	return Config{
		StatColumn:      "neg_log_p",
		GenoFormat:      "tsv",
		MatrixSize:      40,
		Squared:         true,
		MissUpperBound:  1,
		LocalNumThreads: 1,
	}
}

// LoadConfig decodes a TOML file over the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(filename, &config); err != nil {
		return config, fmt.Errorf("config %s: %w", filename, err)
	}
	return config, nil
}

// Region builds the ld.Region for a config.
func (c Config) Region() ld.Region {
	return ld.Region{Chromosome: c.Chromosome, Start: c.RegionStart, End: c.RegionEnd}
}

// AnalyzeLocus runs reference mode over one region: select the region's
// variants, pick the reference (the peak unless refID names one explicitly),
// and compute r squared of every region variant against it. Per-variant
// failures are recorded in the result's Status and do not abort the run.
func AnalyzeLocus(tbl *variant.Table, g *geno.Matrix, region ld.Region, refID string) (*ld.Vector, error) {
	selected := ld.Select(tbl, region)
	if len(selected) == 0 {
		return nil, &ld.EmptyInputError{Op: "locusld: region " + region.String()}
	}

	var ref variant.Variant
	if refID == "" {
		var err error
		ref, err = ld.Peak(selected)
		if err != nil {
			return nil, err
		}
	} else {
		found := false
		for _, v := range selected {
			if v.ID == refID {
				ref, found = v, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("locusld: reference variant %q not in region %s", refID, region)
		}
	}

	refCol, err := g.Column(ref.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(selected))
	for i, v := range selected {
		ids[i] = v.ID
	}
	targets, err := g.Columns(ids)
	if err != nil {
		return nil, err
	}

	r2, status := ld.ReferenceR2(refCol, targets)
	return &ld.Vector{
		Region:   region,
		RefID:    ref.ID,
		Variants: selected,
		R2:       r2,
		Status:   status,
	}, nil
}

// LocusMatrix runs all-pairs mode: select the region, drop columns that are
// monomorphic or miss more individuals than missUB allows, downsample to at
// most size variants, and compute the correlation matrix with Mb axis
// labels.
func LocusMatrix(tbl *variant.Table, g *geno.Matrix, region ld.Region, size int, squared bool, mafLB, missUB float64, threads int) (*ld.Matrix, error) {
	selected := ld.Select(tbl, region)
	if len(selected) == 0 {
		return nil, &ld.EmptyInputError{Op: "locusld: region " + region.String()}
	}

	usable := filterUsable(g, selected, mafLB, missUB)
	if len(usable) == 0 {
		return nil, &ld.EmptyInputError{Op: "locusld: no usable variants in " + region.String()}
	}

	if size > len(usable) {
		size = len(usable)
	}
	subset, err := ld.DownsampleVariants(usable, size)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(subset))
	for i, v := range subset {
		ids[i] = v.ID
	}
	cols, err := g.Columns(ids)
	if err != nil {
		return nil, err
	}
	m, err := ld.AllPairs(cols, squared, threads)
	if err != nil {
		return nil, err
	}

	return &ld.Matrix{
		Variants: subset,
		Labels:   ld.MbLabels(subset),
		R:        m,
		Squared:  squared,
	}, nil
}

// missUB = 0 is a valid strict bound (no missingness allowed); a negative
// value means unset and allows any missingness.
func filterUsable(g *geno.Matrix, selected []variant.Variant, mafLB, missUB float64) []variant.Variant {
	if missUB < 0 {
		missUB = 1
	}
	var usable []variant.Variant
	for _, v := range selected {
		j, ok := g.Lookup(v.ID)
		if !ok {
			continue
		}
		s := g.ColumnSummary(j)
		if s.Monomorphic || s.NumObserved < 2 {
			continue
		}
		if s.MAF() < mafLB || s.MissingRate > missUB {
			continue
		}
		usable = append(usable, v)
	}
	return usable
}
