// Package dataset reads and writes denaturation measurements as
// comma-separated tables.
//
// A table carries temperatures in Kelvin and Celsius, the raw signal, and the
// derived fraction and fit columns once they have been computed.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names as they appear in the header row.
const (
	ColumnKelvin   = "temperature / K"
	ColumnCelsius  = "temperature / °C"
	ColumnSignal   = "signal"
	ColumnFraction = "fraction"
	ColumnFit      = "fit"
)

// KelvinOffset converts between Kelvin and Celsius.
const KelvinOffset = 273.15

var (
	// ErrUnreadable is returned when the source cannot be opened, is empty
	// or cannot be parsed as CSV.
	ErrUnreadable = errors.New("dataset: unreadable")
	// ErrMalformedSchema is returned for missing columns or non-numeric cells.
	ErrMalformedSchema = errors.New("dataset: malformed schema")
	// ErrLength is returned when a derived column does not match the table length.
	ErrLength = errors.New("dataset: column length mismatch")
)

// Table is an in-memory denaturation dataset. Fraction and Fit are nil until set.
type Table struct {
	Kelvin   []float64
	Celsius  []float64
	Signal   []float64
	Fraction []float64
	Fit      []float64
}

// Load reads the table stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Read parses a table from r. The header must name the signal and Kelvin
// columns; the Celsius column is derived when absent. Other columns are
// ignored.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrUnreadable)
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	kCol, ok := index[ColumnKelvin]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformedSchema, ColumnKelvin)
	}
	sCol, ok := index[ColumnSignal]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformedSchema, ColumnSignal)
	}
	cCol, hasCelsius := index[ColumnCelsius]

	rows := records[1:]
	t := &Table{
		Kelvin:  make([]float64, len(rows)),
		Celsius: make([]float64, len(rows)),
		Signal:  make([]float64, len(rows)),
	}

	for i, rec := range rows {
		line := i + 2
		if t.Kelvin[i], err = cell(rec, kCol, line, ColumnKelvin); err != nil {
			return nil, err
		}
		if t.Signal[i], err = cell(rec, sCol, line, ColumnSignal); err != nil {
			return nil, err
		}
		if hasCelsius {
			if t.Celsius[i], err = cell(rec, cCol, line, ColumnCelsius); err != nil {
				return nil, err
			}
		} else {
			t.Celsius[i] = t.Kelvin[i] - KelvinOffset
		}
	}

	return t, nil
}

func cell(rec []string, col, line int, name string) (float64, error) {
	if col >= len(rec) {
		return 0, fmt.Errorf("%w: line %d: missing %q value", ErrMalformedSchema, line, name)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d, column %q: %w", ErrMalformedSchema, line, name, err)
	}

	return v, nil
}

// FromSample builds a table from Kelvin temperatures and signal values.
func FromSample(kelvin, signal []float64) (*Table, error) {
	if len(kelvin) != len(signal) {
		return nil, fmt.Errorf("%w: %d temperatures, %d signal values", ErrLength, len(kelvin), len(signal))
	}

	t := &Table{
		Kelvin:  append([]float64(nil), kelvin...),
		Celsius: make([]float64, len(kelvin)),
		Signal:  append([]float64(nil), signal...),
	}
	for i, k := range t.Kelvin {
		t.Celsius[i] = k - KelvinOffset
	}

	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Kelvin)
}

// SetFraction stores the normalized signal column.
func (t *Table) SetFraction(v []float64) error {
	if len(v) != t.Len() {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", ErrLength, ColumnFraction, len(v), t.Len())
	}
	t.Fraction = v

	return nil
}

// SetFit stores the model prediction column.
func (t *Table) SetFit(v []float64) error {
	if len(v) != t.Len() {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", ErrLength, ColumnFit, len(v), t.Len())
	}
	t.Fit = v

	return nil
}

// WriteCSV writes the table with all five columns. Unset derived columns are
// written as empty cells.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnKelvin, ColumnCelsius, ColumnSignal, ColumnFraction, ColumnFit}); err != nil {
		return err
	}

	rec := make([]string, 5)
	for i := 0; i < t.Len(); i++ {
		rec[0] = format(t.Kelvin[i])
		rec[1] = format(t.Celsius[i])
		rec[2] = format(t.Signal[i])
		rec[3] = optional(t.Fraction, i)
		rec[4] = optional(t.Fit, i)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// Save writes the table to path, replacing any existing file.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func optional(col []float64, i int) string {
	if col == nil {
		return ""
	}

	return format(col[i])
}
