package core

// export.go serialises tables to single-sheet XLSX workbooks.
//
// Every cell is written as a string, header row first. Null cells are left
// blank. The zip container excelize produces is rewritten with entries sorted
// by name and a fixed timestamp so identical tables give identical bytes.

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// ExportSheetName is the name of the only sheet in exported workbooks.
const ExportSheetName = "DATA"

// zipEpoch is the modification time stamped on every workbook entry.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// ToWorkbookBytes renders t as an XLSX workbook.
func ToWorkbookBytes(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(ExportSheetName)
	if err != nil {
		return nil, fmt.Errorf("open stream writer: %w", err)
	}

	columns := t.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	values := make([]interface{}, len(columns))
	for i, row := range t.Rows() {
		for j, c := range row {
			if c.Valid {
				values[j] = c.String
			} else {
				values[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return canonicalizeZip(buf.Bytes())
}

// canonicalizeZip rewrites a zip archive with entries in name order and
// fixed metadata.
func canonicalizeZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reopen workbook: %w", err)
	}

	files := slices.Clone(zr.File)
	slices.SortFunc(files, func(a, b *zip.File) int {
		return strings.Compare(a.Name, b.Name)
	})

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, zf := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     zf.Name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return nil, err
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
