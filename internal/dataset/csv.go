package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCSV reads a header row followed by data rows. The delimiter is detected
// from the header line. Cells that parse as finite numbers become numeric.
func ReadCSV(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %v", ErrInvalidDataset, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var ds Dataset
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv row %d: %v", ErrInvalidDataset, len(ds)+1, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		var rec Record
		for i, col := range header {
			if i >= len(row) {
				break
			}
			rec.Set(col, parseCell(row[i]))
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

func parseCell(cell string) Value {
	cell = strings.TrimSpace(cell)
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return String(cell)
}

func detectDelimiter(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return ','
	}
	line := sc.Text()

	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if c := strings.Count(line, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// Load reads a dataset from a .json, .csv or .tsv file.
func Load(path string) (Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseJSON(raw)
	case ".csv", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
}
