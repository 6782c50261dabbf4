package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// Provenance columns appended to every row read from a file.
const (
	SourceColumn = "__SOURCE__"
	TypeColumn   = "__TYPE__"
)

// Category tags an uploaded file as one of the two account groups.
type Category string

const (
	// CategoryCKH holds term-deposit account files.
	CategoryCKH Category = "CKH"
	// CategoryKKH holds demand-deposit account files.
	CategoryKKH Category = "KKH"
)

// Categories lists the categories in ingestion order.
var Categories = []Category{CategoryCKH, CategoryKKH}

// ParseCategory converts a case-insensitive label to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryCKH:
		return CategoryCKH, nil
	case CategoryKKH:
		return CategoryKKH, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Upload is one raw input file.
type Upload struct {
	Name     string // Display name including extension
	Category Category
	Data     []byte
	// Size is the file size as reported by the transport. Zero means
	// len(Data). Oversized files may be passed with Size set and no Data.
	Size int64
}

func (u Upload) size() int64 {
	if u.Size > 0 {
		return u.Size
	}
	return int64(len(u.Data))
}

// FileFailure records a file that was skipped during a batch.
type FileFailure struct {
	FileName string   `json:"file_name"`
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
	Code     string   `json:"code"`
	Err      error    `json:"-"`
}

// SourceCount is the number of merged rows contributed by one file.
type SourceCount struct {
	FileName string   `json:"file_name"`
	Category Category `json:"category"`
	Rows     int      `json:"rows"`
}

// BatchResult is the outcome of ingesting one set of uploads.
type BatchResult struct {
	Merged        *table.Table
	DefaultColumn string
	FilesSeen     int
	TablesRead    int
	Sources       []SourceCount
	Failures      []FileFailure
	Duration      time.Duration
}

// FilterRequest selects a column and query for RowFilter.
type FilterRequest struct {
	Column string // Empty means the batch's default column
	Query  string
	Exact  bool
}

// Artifact is a downloadable export.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// XLSXContentType is the MIME type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ArtifactNames returns the conventional names of the merged and filtered
// exports, e.g. ALL_CKH_KKH_MERGED.xlsx and FILTERED_CKH_KKH.xlsx.
func ArtifactNames() (all, filtered string) {
	labels := make([]string, len(Categories))
	for i, c := range Categories {
		labels[i] = string(c)
	}
	joined := strings.Join(labels, "_")
	return "ALL_" + joined + "_MERGED.xlsx", "FILTERED_" + joined + ".xlsx"
}
