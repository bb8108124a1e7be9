// Package geno stores individual-by-variant dosage matrices and their
// loaders. Dosages are expected copy numbers in [0,2]; a missing genotype is
// NaN and is never imputed.
package geno

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense dosage matrix, rows = individuals, columns = variants.
// It is read-only after load.
type Matrix struct {
	data  *mat.Dense
	ids   []string
	index map[string]int
}

// NewMatrix wraps row-major dosage values for numInds individuals. ids names
// the columns in order; len(values) must equal numInds*len(ids).
func NewMatrix(numInds int, ids []string, values []float64) (*Matrix, error) {
	if len(values) != numInds*len(ids) {
		return nil, fmt.Errorf("geno: %d values for %d x %d matrix", len(values), numInds, len(ids))
	}
	index := make(map[string]int, len(ids))
	for j, id := range ids {
		index[id] = j
	}
	return &Matrix{
		data:  mat.NewDense(numInds, len(ids), values),
		ids:   ids,
		index: index,
	}, nil
}

// Dims returns (individuals, variants).
func (m *Matrix) Dims() (int, int) {
	return m.data.Dims()
}

func (m *Matrix) IDs() []string {
	return m.ids
}

// Lookup returns the column index of a variant id.
func (m *Matrix) Lookup(id string) (int, bool) {
	j, ok := m.index[id]
	return j, ok
}

// Column copies out the dosage vector for one variant id. Only the requested
// column is materialized, never the full matrix.
func (m *Matrix) Column(id string) ([]float64, error) {
	j, ok := m.index[id]
	if !ok {
		return nil, fmt.Errorf("geno: unknown variant %q", id)
	}
	return m.ColumnAt(j), nil
}

// ColumnAt copies out the dosage vector at column j.
func (m *Matrix) ColumnAt(j int) []float64 {
	n, _ := m.data.Dims()
	col := make([]float64, n)
	mat.Col(col, j, m.data)
	return col
}

// Columns extracts the dosage vectors for a list of variant ids, in order.
func (m *Matrix) Columns(ids []string) ([][]float64, error) {
	cols := make([][]float64, len(ids))
	for i, id := range ids {
		c, err := m.Column(id)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

// Summary holds per-variant quality statistics used to pre-filter columns
// before correlation.
type Summary struct {
	NumObserved int
	MissingRate float64
	AlleleFreq  float64 // mean dosage / 2 over observed individuals
	Monomorphic bool    // all observed dosages identical
}

// ColumnSummary scans one column.
func (m *Matrix) ColumnSummary(j int) Summary {
	n, _ := m.data.Dims()
	var (
		sum   float64
		obs   int
		first = math.NaN()
		mono  = true
	)
	for i := 0; i < n; i++ {
		v := m.data.At(i, j)
		if math.IsNaN(v) {
			continue
		}
		if obs == 0 {
			first = v
		} else if v != first {
			mono = false
		}
		sum += v
		obs++
	}
	s := Summary{NumObserved: obs, Monomorphic: mono}
	if n > 0 {
		s.MissingRate = float64(n-obs) / float64(n)
	}
	if obs > 0 {
		s.AlleleFreq = sum / float64(obs) / 2
	}
	return s
}

// MAF returns the minor allele frequency for a summary.
func (s Summary) MAF() float64 {
	if s.AlleleFreq > 0.5 {
		return 1 - s.AlleleFreq
	}
	return s.AlleleFreq
}
