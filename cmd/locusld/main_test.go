package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgarde/locusld/variant"
)

const configFixture = `
variant_file = "locus.variants.tsv"
stat_column = "score"
geno_file = "locus.dosage.vcf"
geno_format = "vcf"
chrom = "11"
region_start = 92000000
region_end = 97000000
matrix_size = 30
squared = true
maf_lb = 0.02
local_num_threads = 4
`

func writeConfigFixture(t *testing.T) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(name, []byte(configFixture), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestConfigFileSurvivesUnsetFlags(t *testing.T) {
	name := writeConfigFixture(t)
	if _, err := app.Parse([]string{"matrix", "--config", name}); err != nil {
		t.Fatal(err)
	}
	config, err := mergeConfig(matrixSpan)
	if err != nil {
		t.Fatal(err)
	}
	if config.GenoFormat != "vcf" {
		t.Errorf("geno_format = %q, config file entry must survive when no flag is passed", config.GenoFormat)
	}
	if config.StatColumn != "score" {
		t.Errorf("stat_column = %q, want score", config.StatColumn)
	}
	if config.LocalNumThreads != 4 {
		t.Errorf("local_num_threads = %d, want 4", config.LocalNumThreads)
	}
	if config.MafLowerBound != 0.02 {
		t.Errorf("maf_lb = %g, want 0.02", config.MafLowerBound)
	}

	config = applyMatrixFlags(config)
	if config.MatrixSize != 30 {
		t.Errorf("matrix_size = %d, want 30 from the config file", config.MatrixSize)
	}
	if !config.Squared {
		t.Errorf("squared must stay true when --signed is not passed")
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	name := writeConfigFixture(t)
	args := []string{
		"matrix", "--config", name,
		"--format", "tsv", "--stat-col", "neg_log_p", "--threads", "2",
		"--size", "10", "--signed",
	}
	if _, err := app.Parse(args); err != nil {
		t.Fatal(err)
	}
	config, err := mergeConfig(matrixSpan)
	if err != nil {
		t.Fatal(err)
	}
	if config.GenoFormat != "tsv" {
		t.Errorf("geno format = %q, explicit flag must win", config.GenoFormat)
	}
	if config.StatColumn != "neg_log_p" {
		t.Errorf("stat column = %q, explicit flag must win", config.StatColumn)
	}
	if config.LocalNumThreads != 2 {
		t.Errorf("threads = %d, want 2", config.LocalNumThreads)
	}

	config = applyMatrixFlags(config)
	if config.MatrixSize != 10 {
		t.Errorf("matrix size = %d, want 10", config.MatrixSize)
	}
	if config.Squared {
		t.Error("--signed must switch the matrix to signed r")
	}
}

type flakyWriter struct {
	writesLeft int
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	if w.writesLeft <= 0 {
		return 0, errors.New("no space left on device")
	}
	w.writesLeft--
	return len(p), nil
}

func TestWriteVariantTable(t *testing.T) {
	tbl := variant.NewTable([]variant.Variant{
		{ID: "rs1", Chromosome: "11", Position: 93000000, Stat: 3.5},
		{ID: "rs2", Chromosome: "11", Position: 95000000, Stat: 11},
	})

	var buf bytes.Buffer
	if err := writeVariantTable(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "id\tchr\tpos\tneg_log_p" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "rs2\t11\t95000000\t11" {
		t.Errorf("unexpected row %q", lines[2])
	}

	// A failed write must surface, not produce a silently truncated file.
	if err := writeVariantTable(&flakyWriter{writesLeft: 1}, tbl); err == nil {
		t.Error("write failure after the header must be reported")
	}
	if err := writeVariantTable(&flakyWriter{}, tbl); err == nil {
		t.Error("write failure on the header must be reported")
	}
}

func TestMergeConfigRejectsIncompleteRun(t *testing.T) {
	*configFile = ""
	*matrixSpan.variants = ""
	*matrixSpan.genoFile = ""
	if _, err := mergeConfig(matrixSpan); err == nil {
		t.Fatal("missing inputs must be an error")
	}
}
