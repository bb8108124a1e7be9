package geno

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ReadDelimited parses a dosage matrix from delimited text: a header line of
// variant ids, then one line per individual. Empty fields, "NA" and "nan"
// are missing.
func ReadDelimited(r io.Reader, delim rune) (*Matrix, error) {
	c := csv.NewReader(r)
	c.Comma = delim

	ids, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("dosage header: %w", err)
	}

	var values []float64
	numInds := 0
	for {
		rec, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dosage line %d: %w", numInds+2, err)
		}
		for _, field := range rec {
			switch field {
			case "", "NA", "nan", "NaN":
				values = append(values, math.NaN())
			default:
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, fmt.Errorf("dosage line %d: bad value %q", numInds+2, field)
				}
				values = append(values, v)
			}
		}
		numInds++
	}

	return NewMatrix(numInds, ids, values)
}

// ReadDelimitedFile is ReadDelimited over a file path.
func ReadDelimitedFile(filename string, delim rune) (*Matrix, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDelimited(f, delim)
}

// ReadFloatBin reads an nrow x ncol dosage matrix stored as consecutive
// little-endian float64 values, row-major. NaN encodes missing.
func ReadFloatBin(filename string, nrow, ncol int, ids []string) (*Matrix, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	buf := make([]byte, 8*nrow*ncol)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, err
	}
	values := make([]float64, nrow*ncol)
	for i := 0; i < len(buf); i += 8 {
		values[i/8] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i : i+8]))
	}
	return NewMatrix(nrow, ids, values)
}

// WriteDelimited writes a matrix in the ReadDelimited layout. Missing
// dosages become "NA".
func WriteDelimited(w io.Writer, m *Matrix, delim rune) error {
	bw := bufio.NewWriter(w)
	for j, id := range m.IDs() {
		if j > 0 {
			if _, err := bw.WriteRune(delim); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(id); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	n, k := m.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			if j > 0 {
				if _, err := bw.WriteRune(delim); err != nil {
					return err
				}
			}
			v := m.data.At(i, j)
			var s string
			if math.IsNaN(v) {
				s = "NA"
			} else {
				s = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if _, err := bw.WriteString(s); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
