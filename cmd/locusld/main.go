// locusld computes linkage-disequilibrium summaries around a GWAS
// association peak: per-variant r squared against the top marker and
// downsampled all-pairs correlation matrices, as TSV for plotting.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/raulk/go-watchdog"
	"go.dedis.ch/onet/v3/log"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	locusld "github.com/rgarde/locusld"
	"github.com/rgarde/locusld/geno"
	"github.com/rgarde/locusld/sim"
	"github.com/rgarde/locusld/variant"
)

var (
	app        = kingpin.New("locusld", "locus LD summaries for GWAS region plots")
	configFile = app.Flag("config", "TOML config file; flags override its entries").Short('c').String()

	regionCmd  = app.Command("region", "compute r2 of every region variant against the reference (default: the peak)")
	regionOut  = regionCmd.Flag("out", "output TSV, default stdout").Short('o').String()
	regionRef  = regionCmd.Flag("ref", "reference variant id; empty picks the strongest association").String()
	regionSpan = addLocusFlags(regionCmd)

	matrixCmd  = app.Command("matrix", "compute a downsampled all-pairs correlation matrix over the region")
	matrixOut  = matrixCmd.Flag("out", "output TSV, default stdout").Short('o').String()
	matrixK    = matrixCmd.Flag("size", "max variants to keep after downsampling (default 40)").Int()
	matrixSign = matrixCmd.Flag("signed", "emit signed r instead of r2").Bool()
	matrixSpan = addLocusFlags(matrixCmd)

	simCmd     = app.Command("simulate", "write a synthetic locus (variant table + dosage matrix) for demos and tests")
	simPrefix  = simCmd.Flag("prefix", "output file prefix").Default("locus").String()
	simInds    = simCmd.Flag("inds", "number of individuals").Default("500").Int()
	simVars    = simCmd.Flag("snps", "number of variants").Default("200").Int()
	simSeed    = simCmd.Flag("seed", "PRNG seed").Default("42").Uint64()
	simMissing = simCmd.Flag("missing", "missing dosage rate").Default("0.01").Float64()

	cyan = color.New(color.FgCyan).SprintFunc()
)

type locusFlags struct {
	variants *string
	statCol  *string
	genoFile *string
	format   *string
	numInds  *int
	chrom    *string
	from     *int
	to       *int
	threads  *int
}

func addLocusFlags(cmd *kingpin.CmdClause) *locusFlags {
	return &locusFlags{
		variants: cmd.Flag("variants", "variant summary table, TSV with id/chr/pos and a statistic column").String(),
		statCol:  cmd.Flag("stat-col", "association statistic column name (default neg_log_p)").String(),
		genoFile: cmd.Flag("geno", "dosage matrix file").String(),
		format:   cmd.Flag("format", "dosage file format (default tsv)").Enum("tsv", "csv", "bin", "byte", "vcf"),
		numInds:  cmd.Flag("inds", "individual count, bin/byte formats only").Int(),
		chrom:    cmd.Flag("chrom", "region chromosome").String(),
		from:     cmd.Flag("from", "region start, base pairs (inclusive)").Int(),
		to:       cmd.Flag("to", "region end, base pairs (inclusive)").Int(),
		threads:  cmd.Flag("threads", "worker threads for the all-pairs job").Int(),
	}
}

func main() {
	app.UsageTemplate(kingpin.CompactUsageTemplate).Version("1.0.0")
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case regionCmd.FullCommand():
		runRegion()
	case matrixCmd.FullCommand():
		runMatrix()
	case simCmd.FullCommand():
		runSimulate()
	}
}

// mergeConfig layers precedence: flag > config file > DefaultConfig. Flags
// carry no kingpin defaults, so a flag left unset never overwrites the file.
func mergeConfig(f *locusFlags) (locusld.Config, error) {
	config := locusld.DefaultConfig()
	if *configFile != "" {
		var err error
		config, err = locusld.LoadConfig(*configFile)
		if err != nil {
			return config, err
		}
	}
	if *f.variants != "" {
		config.VariantFile = *f.variants
	}
	if *f.statCol != "" {
		config.StatColumn = *f.statCol
	}
	if *f.genoFile != "" {
		config.GenoFile = *f.genoFile
	}
	if *f.format != "" {
		config.GenoFormat = *f.format
	}
	if *f.numInds > 0 {
		config.NumInds = *f.numInds
	}
	if *f.chrom != "" {
		config.Chromosome = *f.chrom
	}
	if *f.from > 0 {
		config.RegionStart = *f.from
	}
	if *f.to > 0 {
		config.RegionEnd = *f.to
	}
	if *f.threads > 0 {
		config.LocalNumThreads = *f.threads
	}

	if config.StatColumn == "" {
		config.StatColumn = "neg_log_p"
	}
	if config.GenoFormat == "" {
		config.GenoFormat = "tsv"
	}
	if config.LocalNumThreads <= 0 {
		config.LocalNumThreads = 1
	}

	if config.VariantFile == "" || config.GenoFile == "" {
		return config, fmt.Errorf("need --variants and --geno (or a config file setting them)")
	}
	if config.Chromosome == "" || config.RegionEnd == 0 {
		return config, fmt.Errorf("need a region: --chrom, --from, --to")
	}
	return config, nil
}

func buildConfig(f *locusFlags) locusld.Config {
	config, err := mergeConfig(f)
	if err != nil {
		log.Fatal(err)
	}

	runtime.GOMAXPROCS(config.LocalNumThreads)
	if config.MemoryLimit > 0 {
		err, stopFn := watchdog.HeapDriven(config.MemoryLimit, 40, watchdog.NewAdaptivePolicy(0.5))
		if err != nil {
			log.Fatal(err)
		}
		_ = stopFn // released at process exit
	}
	return config
}

func loadInputs(config locusld.Config) (*variant.Table, *geno.Matrix) {
	tbl, err := variant.ReadTableFile(config.VariantFile, config.StatColumn)
	if err != nil {
		log.Fatal(err)
	}

	var g *geno.Matrix
	switch config.GenoFormat {
	case "tsv":
		g, err = geno.ReadDelimitedFile(config.GenoFile, '\t')
	case "csv":
		g, err = geno.ReadDelimitedFile(config.GenoFile, ',')
	case "bin":
		g, err = geno.ReadFloatBin(config.GenoFile, config.NumInds, tbl.Len(), tableIDs(tbl))
	case "byte":
		var dfs *geno.DosageFileStream
		dfs, err = geno.NewDosageFileStream(config.GenoFile, uint64(config.NumInds), uint64(tbl.Len()))
		if err == nil {
			defer dfs.Close()
			g, err = geno.ReadStream(dfs, tableIDs(tbl))
		}
	case "vcf":
		g, _, err = geno.ReadVCFFile(config.GenoFile)
	default:
		log.Fatal(fmt.Sprintf("unknown dosage format %q", config.GenoFormat))
	}
	if err != nil {
		log.Fatal(err)
	}

	n, k := g.Dims()
	log.LLvl1(fmt.Sprintf("loaded %d variants, %d x %d dosage matrix", tbl.Len(), n, k))
	return tbl, g
}

func tableIDs(tbl *variant.Table) []string {
	ids := make([]string, tbl.Len())
	for i, v := range tbl.Variants {
		ids[i] = v.ID
	}
	return ids
}

func runRegion() {
	config := buildConfig(regionSpan)
	if *regionRef != "" {
		config.RefVariant = *regionRef
	}
	tbl, g := loadInputs(config)

	result, err := locusld.AnalyzeLocus(tbl, g, config.Region(), config.RefVariant)
	if err != nil {
		log.Fatal(err)
	}
	log.LLvl1(fmt.Sprintf("region %s: reference %s, %d/%d variants correlated",
		result.Region, result.RefID, result.NumOK(), len(result.Variants)))

	writeResult(*regionOut, result.WriteTSV)
}

// applyMatrixFlags folds the matrix-only flags into the merged config, again
// with explicit flags winning over the file.
func applyMatrixFlags(config locusld.Config) locusld.Config {
	if *matrixK > 0 {
		config.MatrixSize = *matrixK
	}
	if *matrixSign {
		config.Squared = false
	}
	return config
}

func runMatrix() {
	config := applyMatrixFlags(buildConfig(matrixSpan))
	tbl, g := loadInputs(config)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Prefix = "computing pairwise correlations   "
	s.Start()
	result, err := locusld.LocusMatrix(tbl, g, config.Region(), config.MatrixSize, config.Squared,
		config.MafLowerBound, config.MissUpperBound, config.LocalNumThreads)
	s.Stop()
	if err != nil {
		log.Fatal(err)
	}
	log.LLvl1(fmt.Sprintf("region %s: %d x %d matrix", config.Region(), len(result.Variants), len(result.Variants)))

	writeResult(*matrixOut, result.WriteTSV)
}

func runSimulate() {
	params := sim.DefaultParams()
	params.NumInds = *simInds
	params.NumVars = *simVars
	params.Seed = *simSeed
	params.MissingRate = *simMissing
	params.PeakIndex = params.NumVars / 2

	tbl, g, err := sim.Locus(params)
	if err != nil {
		log.Fatal(err)
	}

	variantFile := *simPrefix + ".variants.tsv"
	genoFile := *simPrefix + ".dosage.tsv"

	vf, err := os.Create(variantFile)
	if err != nil {
		log.Fatal(err)
	}
	defer vf.Close()
	if err := writeVariantTable(vf, tbl); err != nil {
		log.Fatal(err)
	}

	gf, err := os.Create(genoFile)
	if err != nil {
		log.Fatal(err)
	}
	defer gf.Close()
	if err := geno.WriteDelimited(gf, g, '\t'); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nsynthetic locus written to %s and %s\n", cyan(variantFile), cyan(genoFile))
}

func writeVariantTable(w io.Writer, tbl *variant.Table) error {
	if _, err := fmt.Fprintln(w, "id\tchr\tpos\tneg_log_p"); err != nil {
		return err
	}
	for _, v := range tbl.Variants {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%g\n", v.ID, v.Chromosome, v.Position, v.Stat); err != nil {
			return err
		}
	}
	return nil
}

func writeResult(out string, write func(w io.Writer) error) {
	f := os.Stdout
	if out != "" {
		var err error
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatal(err)
			}
		}
		f, err = os.Create(out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}
	if err := write(f); err != nil {
		log.Fatal(err)
	}
	if out != "" {
		fmt.Printf("\noutput at: %s\n", cyan(out))
	}
}
