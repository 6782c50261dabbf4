package core

// reader.go turns one uploaded file into a table of text cells.
//
// Supported formats, chosen by extension (case-insensitive):
//
//	.csv   comma-delimited text, first record is the header
//	.xlsx  Office Open XML workbook, first sheet, first non-blank row is the header
//	.xls   legacy BIFF workbook, same rules as .xlsx
//
// Cells are never type-converted. Workbook cells are read as their stored
// value rather than their display format, so 001201 stays 001201 and long
// account numbers are not rendered in scientific notation.
//
// Header naming follows the usual dataframe conventions: a blank header cell
// at position i becomes "Unnamed: i" and repeated names are suffixed ".1",
// ".2", ... so every column name in a table is unique.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// Reader parses uploaded files into provenance-tagged tables.
type Reader struct {
	cache  *ContentCache
	logger *slog.Logger
}

// NewReader creates a Reader. cache may be nil to disable memoization.
func NewReader(cache *ContentCache) *Reader {
	return &Reader{cache: cache, logger: slog.Default()}
}

// WithLogger returns a copy of the reader that logs to logger.
func (r *Reader) WithLogger(logger *slog.Logger) *Reader {
	cp := *r
	cp.logger = logger
	return &cp
}

// fileFormat describes how one extension is parsed.
type fileFormat struct {
	parse func(data []byte) ([][]string, error)
	// strictWidth rejects data rows wider than the header instead of
	// widening the header with unnamed columns.
	strictWidth bool
	// skipBlank drops rows whose cells are all empty.
	skipBlank bool
}

var formats = map[string]fileFormat{
	".csv":  {parse: parseCSV, strictWidth: true},
	".xlsx": {parse: parseXLSX, skipBlank: true},
	".xls":  {parse: parseXLS, skipBlank: true},
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".csv", ".xlsx", ".xls"}
}

// Read parses data as the format implied by name and tags every row with
// __SOURCE__=name and __TYPE__=category.
//
// Returns *FormatError for unknown extensions and *ReadError when the file
// cannot be parsed. Either way the caller may skip the file and continue.
func (r *Reader) Read(data []byte, name string, category Category) (*table.Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := formats[ext]
	if !ok {
		return nil, &FormatError{FileName: name, Extension: ext}
	}

	key := CacheKey(data, name, category)
	if t, ok := r.cache.Get(key); ok {
		r.logger.Debug("table cache hit", "file", name, "category", category)
		return t, nil
	}

	records, err := format.parse(data)
	if err != nil {
		return nil, &ReadError{FileName: name, Err: err}
	}

	t, err := r.buildTable(records, format, name, category)
	if err != nil {
		return nil, &ReadError{FileName: name, Err: err}
	}

	r.cache.Add(key, t)
	return t, nil
}

// buildTable converts raw records (header first) into a tagged table.
func (r *Reader) buildTable(records [][]string, format fileFormat, name string, category Category) (*table.Table, error) {
	if format.skipBlank {
		records = dropBlankRecords(records)
	}

	var header []string
	var body [][]string
	if len(records) > 0 {
		header, body = records[0], records[1:]
	}

	width := len(header)
	for i, rec := range body {
		if len(rec) <= width {
			continue
		}
		if format.strictWidth {
			// +2: 1-based line numbers, header on line 1
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(header), len(rec))
		}
		width = len(rec)
	}

	columns := headerNames(header, width)

	// Overwrite pre-existing provenance columns in place, append otherwise.
	sourceIdx, typeIdx := -1, -1
	for i, c := range columns {
		switch c {
		case SourceColumn:
			sourceIdx = i
		case TypeColumn:
			typeIdx = i
		}
	}
	if sourceIdx >= 0 || typeIdx >= 0 {
		r.logger.Warn("file already has provenance columns; values will be overwritten",
			"file", name,
			"has_source", sourceIdx >= 0,
			"has_type", typeIdx >= 0,
		)
	}
	if sourceIdx < 0 {
		sourceIdx = len(columns)
		columns = append(columns, SourceColumn)
	}
	if typeIdx < 0 {
		typeIdx = len(columns)
		columns = append(columns, TypeColumn)
	}

	source := table.Text(name)
	tag := table.Text(string(category))

	rows := make([]table.Row, len(body))
	for i, rec := range body {
		row := make(table.Row, len(columns))
		for j := 0; j < width; j++ {
			if j < len(rec) {
				row[j] = table.FromRaw(rec[j])
			}
		}
		row[sourceIdx] = source
		row[typeIdx] = tag
		rows[i] = row
	}

	return table.New(columns, rows)
}

// headerNames produces width unique column names from a raw header row.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	used := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		candidate := name
		for used[candidate] {
			seen[name]++
			candidate = name + "." + strconv.Itoa(seen[name])
		}
		used[candidate] = true
		names[i] = candidate
	}
	return names
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		if !isEmptyRow(rec) {
			out = append(out, trimTrailingEmpty(rec))
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmpty(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	return row[:n]
}

// parseCSV reads comma-delimited text with the header in the first record.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(NewTextReader(bytes.NewReader(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("empty file: no columns to parse")
	}
	return records, nil
}

// parseXLSX reads the first sheet of an Office Open XML workbook.
func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// parseXLS reads the first sheet of a legacy BIFF workbook. Cell formats are
// ignored: numbers come back as plain decimals and formulas as their cached
// result. The decoder panics on some malformed inputs; those are reported as
// read errors.
func parseXLS(data []byte) (rows [][]string, err error) {
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("corrupt workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.GetNumberSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet, err := wb.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.New("workbook has no readable sheet")
	}

	for i := 0; i <= sheet.GetNumberRows(); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			rows = append(rows, nil)
			continue
		}
		cols := row.GetCols()
		rec := make([]string, len(cols))
		for j, c := range cols {
			if c != nil {
				rec[j] = xlsCellText(c)
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// xlsCell is the part of a BIFF cell record needed to recover its value.
type xlsCell interface {
	GetString() string
	GetFloat64() float64
}

// xlsCellText returns the stored value of c. Text cells report no numeric
// value and keep their string; numeric and formula cells are rendered from
// the float so 1201 stays 1201 whatever the display format.
func xlsCellText(c xlsCell) string {
	s := c.GetString()
	v := c.GetFloat64()
	if v == 0 {
		return s
	}
	if s == "" {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == v {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return s
}

// ReadAllLimited reads r up to limit bytes, failing with ErrFileTooLarge
// beyond that. limit <= 0 disables the check.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	cr := NewCountingReader(io.LimitReader(r, limit+1))
	data, err := io.ReadAll(cr)
	if err != nil {
		return nil, err
	}
	if cr.BytesRead > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}
