package ld

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rgarde/locusld/variant"
	"gonum.org/v1/gonum/mat"
)

// Vector is a reference-mode result: one r squared per region variant,
// aligned to the region's variant ordering. Status[i] is nil when R2[i] was
// computed, and one of the typed ld errors otherwise (R2[i] is then NaN).
type Vector struct {
	Region   Region
	RefID    string
	Variants []variant.Variant
	R2       []float64
	Status   []error
}

// NumOK counts the variants with a computed r squared.
func (v *Vector) NumOK() int {
	n := 0
	for _, err := range v.Status {
		if err == nil {
			n++
		}
	}
	return n
}

// WriteTSV emits one line per variant: id, chr, pos, stat, r2, status.
// Variants with an uncomputable correlation carry "NA" and the reason.
func (v *Vector) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "id\tchr\tpos\tstat\tr2\tstatus"); err != nil {
		return err
	}
	for i, vv := range v.Variants {
		r2 := "NA"
		status := "ok"
		if v.Status[i] != nil {
			status = v.Status[i].Error()
		} else {
			r2 = strconv.FormatFloat(v.R2[i], 'g', -1, 64)
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%s\t%s\n",
			vv.ID, vv.Chromosome, vv.Position, vv.Stat, r2, status)
		if err != nil {
			return err
		}
	}
	return nil
}

// Matrix is an all-pairs result over a downsampled variant subset, with
// display labels for axis annotation.
type Matrix struct {
	Variants []variant.Variant
	Labels   []string
	R        *mat.SymDense
	Squared  bool
}

// MbLabels renders variant positions as megabases for heatmap axes.
func MbLabels(variants []variant.Variant) []string {
	labels := make([]string, len(variants))
	for i, v := range variants {
		labels[i] = fmt.Sprintf("%.2f Mb", float64(v.Position)/1e6)
	}
	return labels
}

// WriteTSV emits a header of variant ids followed by the dense rows,
// each prefixed with its display label.
func (m *Matrix) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprint(w, "label"); err != nil {
		return err
	}
	for _, v := range m.Variants {
		if _, err := fmt.Fprintf(w, "\t%s", v.ID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	k := len(m.Variants)
	for i := 0; i < k; i++ {
		if _, err := fmt.Fprint(w, m.Labels[i]); err != nil {
			return err
		}
		for j := 0; j < k; j++ {
			if _, err := fmt.Fprintf(w, "\t%g", m.R.At(i, j)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
