package geno

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeByteDosages(t *testing.T, rows [][]int8) string {
	t.Helper()
	var raw []byte
	for _, row := range rows {
		for _, v := range row {
			raw = append(raw, byte(v))
		}
	}
	name := filepath.Join(t.TempDir(), "dosage.bin")
	if err := os.WriteFile(name, raw, 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestDosageFileStream(t *testing.T) {
	name := writeByteDosages(t, [][]int8{
		{0, 1, 2},
		{2, -1, 0},
	})
	dfs, err := NewDosageFileStream(name, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer dfs.Close()

	row, err := dfs.NextRow()
	if err != nil {
		t.Fatal(err)
	}
	if row[0] != 0 || row[1] != 1 || row[2] != 2 {
		t.Errorf("first row = %v", row)
	}

	row, err = dfs.NextRow()
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(row[1]) {
		t.Errorf("negative byte must decode as missing, got %g", row[1])
	}
	if row[0] != 2 || row[2] != 0 {
		t.Errorf("second row = %v", row)
	}

	row, err = dfs.NextRow()
	if err != nil || row != nil {
		t.Errorf("expected clean EOF, got %v, %v", row, err)
	}
}

func TestDosageFileStreamColumnFilter(t *testing.T) {
	name := writeByteDosages(t, [][]int8{
		{0, 1, 2},
		{1, 1, 1},
	})
	dfs, err := NewDosageFileStream(name, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer dfs.Close()
	dfs.UpdateColFilt([]bool{true, false, true})

	if dfs.NumCols() != 2 {
		t.Fatalf("filtered column count = %d, want 2", dfs.NumCols())
	}
	m, err := ReadStream(dfs, []string{"rs1", "rs3"})
	if err != nil {
		t.Fatal(err)
	}
	col, err := m.Column("rs3")
	if err != nil {
		t.Fatal(err)
	}
	if col[0] != 2 || col[1] != 1 {
		t.Errorf("rs3 = %v", col)
	}
}

func TestDosageFileStreamReset(t *testing.T) {
	name := writeByteDosages(t, [][]int8{{1, 2}})
	dfs, err := NewDosageFileStream(name, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer dfs.Close()

	if _, err := dfs.NextRow(); err != nil {
		t.Fatal(err)
	}
	if !dfs.CheckEOF() {
		t.Fatal("expected EOF after one row")
	}
	if err := dfs.Reset(); err != nil {
		t.Fatal(err)
	}
	row, err := dfs.NextRow()
	if err != nil {
		t.Fatal(err)
	}
	if row[0] != 1 || row[1] != 2 {
		t.Errorf("row after reset = %v", row)
	}
}
