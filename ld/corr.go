package ld

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// pairComplete copies the jointly observed entries of x and y into fresh
// slices. Missing dosages are NaN; an individual missing either member of
// the pair contributes to neither.
func pairComplete(x, y []float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, &DimensionMismatchError{LenX: len(x), LenY: len(y)}
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys, nil
}

// Pearson computes the signed correlation of two dosage columns over their
// jointly observed individuals. The denominator convention cancels in the
// ratio; gonum uses n-1 for both covariance and the standard deviations.
func Pearson(x, y []float64) (float64, error) {
	xs, ys, err := pairComplete(x, y)
	if err != nil {
		return 0, err
	}
	if len(xs) < 2 {
		return 0, &InsufficientOverlapError{N: len(xs)}
	}
	if stat.StdDev(xs, nil) == 0 || stat.StdDev(ys, nil) == 0 {
		return 0, &UndefinedCorrelationError{N: len(xs)}
	}
	r := stat.Correlation(xs, ys, nil)
	// Guard against round-off pushing |r| past 1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, nil
}

// RSquared is the squared Pearson correlation of two dosage columns, in [0,1].
func RSquared(x, y []float64) (float64, error) {
	r, err := Pearson(x, y)
	if err != nil {
		return 0, err
	}
	return r * r, nil
}

// ReferenceR2 computes r squared of every target column against a fixed
// reference column. Each target is paired with the reference independently,
// so each may use a different subset of individuals. Per-target failures are
// reported in the returned error slice at the target's index and do not stop
// the remaining targets.
func ReferenceR2(ref []float64, targets [][]float64) ([]float64, []error) {
	r2 := make([]float64, len(targets))
	errs := make([]error, len(targets))
	for i, t := range targets {
		r2[i], errs[i] = RSquared(ref, t)
		if errs[i] != nil {
			r2[i] = math.NaN()
		}
	}
	return r2, errs
}

// AllPairs computes the full k x k Pearson correlation matrix over the given
// dosage columns with the same pairwise-complete rule per cell. The diagonal
// is exactly 1 and the matrix is symmetric by construction. If squared is
// true, off-diagonal entries are squared as well.
//
// Any undefined or uncomputable cell aborts with its typed error; callers
// should drop monomorphic or overly missing columns beforehand (see
// geno.Summary). With threads > 1 the upper triangle is fanned out over that
// many workers; columns are read-only during the computation.
func AllPairs(cols [][]float64, squared bool, threads int) (*mat.SymDense, error) {
	k := len(cols)
	if k == 0 {
		return nil, &EmptyInputError{Op: "ld.AllPairs"}
	}
	m := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		m.SetSym(i, i, 1)
	}

	if threads <= 1 {
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				r, err := Pearson(cols[i], cols[j])
				if err != nil {
					return nil, err
				}
				if squared {
					r = r * r
				}
				m.SetSym(i, j, r)
			}
		}
		return m, nil
	}

	if threads > runtime.GOMAXPROCS(0) {
		threads = runtime.GOMAXPROCS(0)
	}
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	rows := make(chan int, k)
	for i := 0; i < k; i++ {
		rows <- i
	}
	close(rows)
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				for j := i + 1; j < k; j++ {
					r, err := Pearson(cols[i], cols[j])
					if err != nil {
						errOnce.Do(func() { firstErr = err })
						return
					}
					if squared {
						r = r * r
					}
					m.SetSym(i, j, r)
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}
