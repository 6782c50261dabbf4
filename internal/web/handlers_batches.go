package web

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetmerge/internal/core"
	"github.com/JonMunkholm/sheetmerge/internal/logging"
	"github.com/JonMunkholm/sheetmerge/internal/table"
	"github.com/JonMunkholm/sheetmerge/internal/web/templates"
)

const (
	defaultRowLimit = 100
	maxRowLimit     = 1000

	// multipartMemory is how much of a batch is buffered in memory before
	// the multipart reader spills files to disk.
	multipartMemory = 32 << 20
)

// BatchSummary describes a merged batch.
type BatchSummary struct {
	BatchID       string             `json:"batch_id"`
	Columns       []string           `json:"columns"`
	DefaultColumn string             `json:"default_column"`
	TotalRows     int                `json:"total_rows"`
	FilesSeen     int                `json:"files_seen"`
	TablesRead    int                `json:"tables_read"`
	Sources       []core.SourceCount `json:"sources"`
	Failures      []core.FileFailure `json:"failures"`
	DurationMS    int64              `json:"duration_ms"`
}

// RowsResponse is a filtered preview of a batch.
type RowsResponse struct {
	BatchID     string      `json:"batch_id"`
	Column      string      `json:"column"`
	Query       string      `json:"query"`
	Exact       bool        `json:"exact"`
	Columns     []string    `json:"columns"`
	TotalRows   int         `json:"total_rows"`
	MatchedRows int         `json:"matched_rows"`
	Rows        []table.Row `json:"rows"`
}

func newBatchSummary(id string, res *core.BatchResult) BatchSummary {
	sum := BatchSummary{
		BatchID:       id,
		DefaultColumn: res.DefaultColumn,
		FilesSeen:     res.FilesSeen,
		TablesRead:    res.TablesRead,
		Sources:       res.Sources,
		Failures:      res.Failures,
		DurationMS:    res.Duration.Milliseconds(),
	}
	if sum.Sources == nil {
		sum.Sources = []core.SourceCount{}
	}
	if sum.Failures == nil {
		sum.Failures = []core.FileFailure{}
	}
	if res.Merged != nil {
		sum.Columns = res.Merged.Columns()
		sum.TotalRows = res.Merged.Len()
	}
	return sum
}

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	categories := make([]string, len(core.Categories))
	for i, c := range core.Categories {
		categories[i] = string(c)
	}

	page := templates.IndexPage(templates.IndexData{
		MaxFilesPerCategory: s.cfg.Upload.MaxFilesPerCategory,
		MaxFileSizeMB:       s.cfg.Upload.MaxFileSize >> 20,
		Extensions:          core.SupportedExtensions(),
		Categories:          categories,
	})
	templ.Handler(page).ServeHTTP(w, r)
}

// handleHealth reports liveness plus session, limiter and cache state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
		"batches":  s.service.LimiterStatus(),
		"cache":    s.service.CacheStats(),
	})
}

// handleCreateBatch reads the multipart ckh/kkh files, merges them and
// stores the result as a new batch session.
func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxRequestSize())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", errBadUpload, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads, err := s.collectUploads(r.MultipartForm)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Ingest(r.Context(), uploads)
	if err != nil {
		var failures []core.FileFailure
		if res != nil {
			failures = res.Failures
		}
		s.respondBatchError(w, r, err, failures)
		return
	}

	id := s.service.CreateSession(res)
	logging.WithBatch(r.Context(), id).Info("batch session created",
		"rows", res.Merged.Len(),
		"failed_files", len(res.Failures),
	)
	writeJSON(w, http.StatusCreated, newBatchSummary(id, res))
}

// collectUploads reads every file field in category order, CKH first.
func (s *Server) collectUploads(form *multipart.Form) ([]core.Upload, error) {
	var uploads []core.Upload
	for _, cat := range core.Categories {
		for _, fh := range form.File[strings.ToLower(string(cat))] {
			up := core.Upload{Name: fh.Filename, Category: cat, Size: fh.Size}

			// Oversized files are reported by Ingest without being read.
			if fh.Size <= s.cfg.Upload.MaxFileSize {
				data, err := readPart(fh, s.cfg.Upload.MaxFileSize)
				if err != nil {
					return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
				}
				up.Data = data
			}
			uploads = append(uploads, up)
		}
	}
	return uploads, nil
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.ReadAllLimited(f, limit)
}

// handleGetBatch returns the summary of a stored batch.
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	b, err := s.service.Session(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBatchSummary(b.ID, b.Result))
}

// handleDeleteBatch discards a stored batch.
func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	if err := s.service.DeleteSession(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.WithBatch(r.Context(), id).Info("batch session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleBatchRows returns the first rows matching a filter.
func (s *Server) handleBatchRows(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	b, err := s.service.Session(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	req := parseFilterRequest(r)
	filtered, err := core.FilterResult(b.Result, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	column := req.Column
	if column == "" {
		column = b.Result.DefaultColumn
	}
	rows := filtered.Rows()
	if limit := parseIntParam(r, "limit", defaultRowLimit, maxRowLimit); len(rows) > limit {
		rows = rows[:limit]
	}

	writeJSON(w, http.StatusOK, RowsResponse{
		BatchID:     id,
		Column:      column,
		Query:       req.Query,
		Exact:       req.Exact,
		Columns:     filtered.Columns(),
		TotalRows:   b.Result.Merged.Len(),
		MatchedRows: filtered.Len(),
		Rows:        rows,
	})
}

// handleExportAll downloads the merged workbook.
func (s *Server) handleExportAll(w http.ResponseWriter, r *http.Request) {
	art, err := s.service.ExportAll(chi.URLParam(r, "batchID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeArtifact(w, art)
}

// handleExportFiltered downloads the filtered workbook.
func (s *Server) handleExportFiltered(w http.ResponseWriter, r *http.Request) {
	art, err := s.service.ExportFiltered(chi.URLParam(r, "batchID"), parseFilterRequest(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeArtifact(w, art)
}

func writeArtifact(w http.ResponseWriter, art *core.Artifact) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, art.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(art.Data)
}

// parseFilterRequest reads column, q and exact from the query string.
// A missing or unparsable exact means substring matching.
func parseFilterRequest(r *http.Request) core.FilterRequest {
	q := r.URL.Query()
	exact, _ := strconv.ParseBool(q.Get("exact"))
	return core.FilterRequest{
		Column: q.Get("column"),
		Query:  q.Get("q"),
		Exact:  exact,
	}
}

// parseIntParam parses a positive integer query parameter, capped at max.
func parseIntParam(r *http.Request, name string, defaultVal, max int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	if i > max {
		return max
	}
	return i
}
