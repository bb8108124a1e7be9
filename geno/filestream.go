package geno

import (
	"bufio"
	"io"
	"math"
	"os"
)

// DosageFileStream reads a raw dosage file one individual at a time: one
// byte per variant per row, row-major, values 0..2, any negative byte
// meaning missing. Missing entries become NaN; they are reported as-is and
// never replaced.
//
// The stream exists so a caller can pull out the columns of one region
// without holding the whole cohort matrix in memory.
type DosageFileStream struct {
	filename string
	file     *os.File
	reader   *bufio.Reader

	numRows uint64
	numCols uint64

	lineCount uint64
	buf       []byte

	filtCols   []bool
	filtNumCol uint64
}

func NewDosageFileStream(filename string, numRow, numCol uint64) (*DosageFileStream, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	return &DosageFileStream{
		filename: filename,
		file:     file,
		reader:   bufio.NewReader(file),
		numRows:  numRow,
		numCols:  numCol,
		buf:      make([]byte, numCol),
	}, nil
}

// UpdateColFilt restricts subsequent rows to the columns marked true.
func (dfs *DosageFileStream) UpdateColFilt(filt []bool) {
	dfs.filtCols = filt
	dfs.filtNumCol = 0
	for _, b := range filt {
		if b {
			dfs.filtNumCol++
		}
	}
}

func (dfs *DosageFileStream) NumRows() uint64 {
	return dfs.numRows
}

func (dfs *DosageFileStream) NumCols() uint64 {
	if dfs.filtCols != nil {
		return dfs.filtNumCol
	}
	return dfs.numCols
}

func (dfs *DosageFileStream) CheckEOF() bool {
	return dfs.lineCount >= dfs.numRows
}

// NextRow returns the dosages for the next individual, filtered columns
// only, or nil at end of input.
func (dfs *DosageFileStream) NextRow() ([]float64, error) {
	if dfs.CheckEOF() {
		return nil, nil
	}
	if _, err := io.ReadFull(dfs.reader, dfs.buf); err != nil {
		return nil, err
	}

	var row []float64
	if dfs.filtCols != nil {
		row = make([]float64, dfs.filtNumCol)
	} else {
		row = make([]float64, len(dfs.buf))
	}

	idx := 0
	for i := range dfs.buf {
		if dfs.filtCols != nil && !dfs.filtCols[i] {
			continue
		}
		v := float64(int8(dfs.buf[i]))
		if v < 0 {
			v = math.NaN()
		}
		row[idx] = v
		idx++
	}

	dfs.lineCount++
	return row, nil
}

// Reset rewinds the stream to the first individual.
func (dfs *DosageFileStream) Reset() error {
	if _, err := dfs.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	dfs.reader = bufio.NewReader(dfs.file)
	dfs.lineCount = 0
	return nil
}

func (dfs *DosageFileStream) Close() error {
	return dfs.file.Close()
}

// ReadStream materializes a DosageFileStream (with any column filter
// applied) into a Matrix with the given column ids.
func ReadStream(dfs *DosageFileStream, ids []string) (*Matrix, error) {
	n := int(dfs.NumRows())
	k := int(dfs.NumCols())
	values := make([]float64, 0, n*k)
	for {
		row, err := dfs.NextRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		values = append(values, row...)
	}
	return NewMatrix(n, ids, values)
}
