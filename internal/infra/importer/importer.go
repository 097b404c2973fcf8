// Package importer reads recipient lists from delimited text, CSV and XLSX sources.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"courier/internal/domain/entity"
	"courier/internal/errors"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are not .csv, .txt or .xlsx
var ErrUnsupportedFormat = errors.New("unsupported recipient file format")

// ErrEmptySource is returned when a source holds no rows at all
var ErrEmptySource = errors.New("recipient source is empty")

var (
	destinationHeaders = map[string]struct{}{
		"phone": {}, "number": {}, "phone_number": {}, "destination": {}, "to": {}, "mobile": {},
	}
	nameHeaders = map[string]struct{}{
		"name": {}, "full_name": {}, "display_name": {},
	}
)

// Entry is one recipient read from a source. Destination is normalized.
type Entry struct {
	Destination string `json:"destination"`
	Name        string `json:"name,omitempty"`
}

// InvalidRow is a row whose destination could not be normalized
type InvalidRow struct {
	Line  int    `json:"line"`
	Value string `json:"value"`
}

// Result holds the parsed rows in source order. Duplicates are kept; the job
// submission collapses them.
type Result struct {
	Entries []Entry      `json:"entries"`
	Invalid []InvalidRow `json:"invalid,omitempty"`
}

// Parse picks the reader from the file extension
func Parse(filename string, r io.Reader) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read text file")
		}

		return ParseText(string(data)), nil
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "file %q", filename)
	}
}

// ParseText reads one recipient per line as destination[,name]. The separator
// may be a comma, a semicolon or a tab. Blank lines are skipped.
func ParseText(text string) *Result {
	var rows [][]string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rows = append(rows, splitLine(line))
	}

	return fromRows(rows)
}

func splitLine(line string) []string {
	if line == "" {
		return nil
	}
	if i := strings.IndexAny(line, ",;\t"); i >= 0 {
		return []string{line[:i], line[i+1:]}
	}

	return []string{line}
}

// ParseCSV reads a delimited file with an optional header row. The delimiter is
// sniffed from the first line.
func ParseCSV(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv file")
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptySource
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse csv file")
	}

	return fromRows(rows), nil
}

func sniffDelimiter(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))

	best, bestCount := ',', bytes.Count(first, []byte(","))
	for _, candidate := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}

	return best
}

// ParseXLSX reads the first sheet of a workbook with an optional header row
func ParseXLSX(r io.Reader) (*Result, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open xlsx file")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySource
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}

	return fromRows(rows), nil
}

// fromRows maps raw rows onto entries. A first row that names its columns is
// used as the header; otherwise column one is the destination and column two the name.
func fromRows(rows [][]string) *Result {
	destCol, nameCol := 0, 1
	start := 0
	if len(rows) > 0 {
		if d, n, ok := headerColumns(rows[0]); ok {
			destCol, nameCol = d, n
			start = 1
		}
	}

	result := &Result{Entries: make([]Entry, 0, len(rows))}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		raw := cell(row, destCol)
		if raw == "" {
			continue
		}

		destination, err := entity.NormalizeDestination(raw)
		if err != nil {
			result.Invalid = append(result.Invalid, InvalidRow{Line: i + 1, Value: raw})

			continue
		}
		result.Entries = append(result.Entries, Entry{
			Destination: destination,
			Name:        cell(row, nameCol),
		})
	}

	return result
}

func headerColumns(row []string) (destCol, nameCol int, ok bool) {
	destCol, nameCol = -1, -1
	for i, h := range row {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, hit := destinationHeaders[key]; hit && destCol < 0 {
			destCol = i
		}
		if _, hit := nameHeaders[key]; hit && nameCol < 0 {
			nameCol = i
		}
	}
	if destCol < 0 {
		return 0, 1, false
	}

	return destCol, nameCol, true
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[col])
}
