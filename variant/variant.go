// Package variant holds per-SNP metadata loaded from GWAS summary tables.
package variant

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Variant is one row of a GWAS summary table: a marker identifier, its
// genomic coordinates, and the association statistic computed upstream
// (typically -log10 of a p-value). Values are never modified after load.
type Variant struct {
	ID         string
	Chromosome string
	Position   int
	Stat       float64
}

// Table is an ordered collection of variants. Order is the input file order
// and is preserved by every downstream operation.
type Table struct {
	Variants []Variant
	index    map[string]int
}

func NewTable(variants []Variant) *Table {
	index := make(map[string]int, len(variants))
	for i, v := range variants {
		index[v.ID] = i
	}
	return &Table{Variants: variants, index: index}
}

func (t *Table) Len() int {
	return len(t.Variants)
}

// Lookup returns the table position of a variant id.
func (t *Table) Lookup(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// ReadTable parses a delimited summary table with a header line. Required
// columns are "id", "chr" and "pos"; statCol names the column holding the
// association statistic. Extra columns are ignored.
func ReadTable(r io.Reader, delim rune, statCol string) (*Table, error) {
	c := csv.NewReader(r)
	c.Comma = delim
	c.TrimLeadingSpace = true

	header, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("variant table header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range []string{"id", "chr", "pos", statCol} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("variant table: missing column %q", name)
		}
	}

	var variants []Variant
	line := 1
	for {
		rec, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("variant table line %d: %w", line+1, err)
		}
		line++

		pos, err := strconv.Atoi(rec[cols["pos"]])
		if err != nil {
			return nil, fmt.Errorf("variant table line %d: bad position %q", line, rec[cols["pos"]])
		}
		stat, err := strconv.ParseFloat(rec[cols[statCol]], 64)
		if err != nil {
			return nil, fmt.Errorf("variant table line %d: bad %s value %q", line, statCol, rec[cols[statCol]])
		}

		variants = append(variants, Variant{
			ID:         rec[cols["id"]],
			Chromosome: rec[cols["chr"]],
			Position:   pos,
			Stat:       stat,
		})
	}

	return NewTable(variants), nil
}

// ReadTableFile is ReadTable over a file path. Tab delimited.
func ReadTableFile(filename string, statCol string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f, '\t', statCol)
}
