// Package export writes report rows to the flat files people open in a
// spreadsheet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
)

// Row is one CSV record. Header order must match Record order.
type Row interface {
	Record() []string
}

// WriteCSV writes header and rows to path, creating parent directories.
// It returns the number of data rows written.
func WriteCSV[T Row](path string, header []string, rows []T) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		rec := row.Record()
		if len(rec) != len(header) {
			return 0, fmt.Errorf("row %d has %d fields, header has %d", i, len(rec), len(header))
		}
		if err := w.Write(rec); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("CSV writer error: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return len(rows), nil
}

func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

// exactDigits is enough fraction digits to tell any float64 at report scale
// apart from a rounding tie.
const exactDigits = 40

// exact is the decimal value of the stored binary float rather than its
// shortest form, so 2.675 (stored just below) rounds down to 2.67.
func exact(v float64) decimal.Decimal {
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', exactDigits, 64))
	if err != nil {
		return decimal.NewFromFloat(v)
	}
	return d
}

// Round rounds half to even at the given number of decimal places.
func Round(v float64, places int32) float64 {
	f, _ := exact(v).RoundBank(places).Float64()
	return f
}

// Float renders v rounded to places without trailing zeros.
func Float(v float64, places int32) string {
	return exact(v).RoundBank(places).String()
}

func Int(v int) string {
	return strconv.Itoa(v)
}

func Bool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
