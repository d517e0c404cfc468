package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gonum.org/v1/gonum/mat"
)

// Dataset holds labeled feature rows. Features is rows x FeatureCount, with
// columns in FeatureNames order regardless of the file's column order.
type Dataset struct {
	Features *mat.Dense
	Targets  []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Targets)
}

// Columns returns the feature matrix in column-major form.
func (d *Dataset) Columns() [][]float64 {
	_, c := d.Features.Dims()
	columns := make([][]float64, c)
	for j := range columns {
		columns[j] = mat.Col(nil, j, d.Features)
	}
	return columns
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, d.Features)
}

// Subset copies the given rows into a new dataset.
func (d *Dataset) Subset(rows []int) *Dataset {
	_, c := d.Features.Dims()
	if len(rows) == 0 {
		return &Dataset{Features: &mat.Dense{}, Targets: nil}
	}
	features := mat.NewDense(len(rows), c, nil)
	targets := make([]float64, len(rows))
	for i, row := range rows {
		features.SetRow(i, d.Features.RawRowView(row))
		targets[i] = d.Targets[row]
	}
	return &Dataset{Features: features, Targets: targets}
}

// LoadDataset reads a CSV dataset from disk.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	ds, err := ReadDataset(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset parses a CSV with header X1..X10,Y in any column order.
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	positions, targetPos, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var values []float64
	var targets []float64
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for _, pos := range positions {
			v, err := parseCell(record[pos])
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, header[pos], err)
			}
			values = append(values, v)
		}
		y, err := parseCell(record[targetPos])
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, TargetColumn, err)
		}
		targets = append(targets, y)
	}

	if len(targets) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return &Dataset{
		Features: mat.NewDense(len(targets), FeatureCount, values),
		Targets:  targets,
	}, nil
}

// mapColumns resolves the file position of each feature and the target.
func mapColumns(header []string) ([]int, int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; dup {
			return nil, 0, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	positions := make([]int, FeatureCount)
	for i, name := range featureNames {
		pos, ok := index[name]
		if !ok {
			return nil, 0, fmt.Errorf("missing column %q", name)
		}
		positions[i] = pos
		delete(index, name)
	}
	targetPos, ok := index[TargetColumn]
	if !ok {
		return nil, 0, fmt.Errorf("missing column %q", TargetColumn)
	}
	delete(index, TargetColumn)
	for name := range index {
		return nil, 0, fmt.Errorf("unexpected column %q", name)
	}
	return positions, targetPos, nil
}

func parseCell(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
