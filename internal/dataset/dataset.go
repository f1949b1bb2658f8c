// Package dataset reads point tables from delimited text files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/TrevorS/idpc"
)

// HeaderMode controls how the first record of a file is treated.
type HeaderMode int

const (
	// HeaderAuto treats the first record as a header when its selected
	// columns do not parse as numbers.
	HeaderAuto HeaderMode = iota
	// HeaderPresent always treats the first record as a header.
	HeaderPresent
	// HeaderAbsent treats every record as data.
	HeaderAbsent
)

// Options configures how a point table is read.
type Options struct {
	// Delimiter separates fields. Default: tab.
	Delimiter rune

	// Columns selects the zero-based coordinate columns, in order.
	// Default: the first two columns (x, y).
	Columns []int

	// Header controls header detection. Default: HeaderAuto.
	Header HeaderMode
}

// Table is a point table loaded into memory.
type Table struct {
	// Columns names the selected columns. Without a header they are named
	// x, y, then c2, c3, ... by position.
	Columns []string

	// Points holds one coordinate row per record.
	Points [][]float64
}

// Load reads the point table stored at path.
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read reads a point table from r. Empty lines are skipped, additional
// columns are ignored, and every selected field must be a finite number.
func Read(r io.Reader, opts Options) (*Table, error) {
	applyDefaults(&opts)
	for _, c := range opts.Columns {
		if c < 0 {
			return nil, fmt.Errorf("%w: negative column index %d", idpc.ErrInvalidInput, c)
		}
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	t := &Table{Columns: defaultNames(opts.Columns)}
	first := true

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", idpc.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			if isHeader(record, opts) {
				names, err := headerNames(record, opts.Columns, line)
				if err != nil {
					return nil, err
				}
				t.Columns = names
				continue
			}
		}

		point, err := parseRecord(record, opts.Columns, line)
		if err != nil {
			return nil, err
		}
		t.Points = append(t.Points, point)
	}

	return t, nil
}

func applyDefaults(opts *Options) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	if len(opts.Columns) == 0 {
		opts.Columns = []int{0, 1}
	}
}

func isHeader(record []string, opts Options) bool {
	switch opts.Header {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	}
	for _, c := range opts.Columns {
		if c >= len(record) {
			return false
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64); err != nil {
			return true
		}
	}
	return false
}

func headerNames(record []string, columns []int, line int) ([]string, error) {
	names := make([]string, len(columns))
	for i, c := range columns {
		if c >= len(record) {
			return nil, fmt.Errorf("%w: line %d: header has %d fields, column %d requested",
				idpc.ErrInvalidInput, line, len(record), c)
		}
		names[i] = strings.TrimSpace(record[c])
	}
	return names, nil
}

func parseRecord(record []string, columns []int, line int) ([]float64, error) {
	point := make([]float64, len(columns))
	for i, c := range columns {
		if c >= len(record) {
			return nil, fmt.Errorf("%w: line %d: %d fields, column %d requested",
				idpc.ErrInvalidInput, line, len(record), c)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %d: %q is not a number",
				idpc.ErrInvalidInput, line, c, record[c])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: line %d column %d: non-finite value %q",
				idpc.ErrInvalidInput, line, c, record[c])
		}
		point[i] = v
	}
	return point, nil
}

func defaultNames(columns []int) []string {
	names := make([]string, len(columns))
	for i := range columns {
		switch i {
		case 0:
			names[i] = "x"
		case 1:
			names[i] = "y"
		default:
			names[i] = "c" + strconv.Itoa(i)
		}
	}
	return names
}
