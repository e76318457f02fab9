package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	sampleColumns = []string{"x", "y"}
	resultColumns = []string{"x", "y_true", "y_pred"}
)

// WriteSamples emits the two-column x,y table with a header row.
func WriteSamples(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleColumns); err != nil {
		return err
	}
	record := make([]string, 2)
	for _, s := range ds {
		record[0] = formatFloat(s.X)
		record[1] = formatFloat(s.Y)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSamplesFile writes ds to path, creating parent directories. A ".gz" suffix
// selects gzip output.
func WriteSamplesFile(path string, ds Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if isGzip(path) {
		// zero header keeps the archive byte-identical across runs
		zw = gzip.NewWriter(f)
		w = zw
	}

	if err := WriteSamples(w, ds); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			return &WriteError{Path: path, Err: err}
		}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// ReadSamples loads a synthesizer output file.
func ReadSamples(path string) (Dataset, error) {
	records, err := readTable(path, sampleColumns, "run generate_data first")
	if err != nil {
		return nil, err
	}
	ds := make(Dataset, len(records))
	for i, r := range records {
		ds[i] = Sample{X: r[0], Y: r[1]}
	}
	return ds, nil
}

// ReadResults loads the x,y_true,y_pred table produced by the external trainer.
func ReadResults(path string) (ResultTable, error) {
	records, err := readTable(path, resultColumns, "run the model trainer first to produce it")
	if err != nil {
		return nil, err
	}
	table := make(ResultTable, len(records))
	for i, r := range records {
		table[i] = ResultRow{X: r[0], YTrue: r[1], YPred: r[2]}
	}
	return table, nil
}

func readTable(path string, columns []string, hint string) ([][]float64, error) {
	rc, err := openInput(path, hint)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseTable(path, rc, columns)
}

func parseTable(path string, r io.Reader, columns []string) ([][]float64, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
	}
	if err != nil {
		return nil, wrapCSVError(path, err)
	}
	index, err := columnIndex(header, columns)
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: err}
	}

	var out [][]float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVError(path, err)
		}
		line, _ := reader.FieldPos(0)

		values := make([]float64, len(columns))
		for i, col := range index {
			if col >= len(record) {
				return nil, &ParseError{Path: path, Line: line, Err: fmt.Errorf("missing value for %q", columns[i])}
			}
			v, err := parseValue(record[col])
			if err != nil {
				return nil, &ParseError{Path: path, Line: line, Err: fmt.Errorf("column %q: %w", columns[i], err)}
			}
			values[i] = v
		}
		out = append(out, values)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
	}
	return out, nil
}

func columnIndex(header, columns []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}
	index := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header", col)
		}
		index[i] = pos
	}
	return index, nil
}

func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	return v, nil
}

func wrapCSVError(path string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Path: path, Line: csvErr.Line, Err: csvErr.Err}
	}
	return fmt.Errorf("read %s: %w", path, err)
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openInput(path, hint string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingInputError{Path: path, Hint: hint}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !isGzip(path) {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
}

func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
