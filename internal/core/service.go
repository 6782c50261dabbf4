package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/sheetmerge/internal/config"
	"github.com/JonMunkholm/sheetmerge/internal/logging"
	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// Service runs batches end to end: read, merge, pick a column, then hold the
// merged table in a session for filtering and export.
type Service struct {
	reader  *Reader
	cache   *ContentCache
	limiter *BatchLimiter

	maxFileSize         int64
	maxFilesPerCategory int

	sessions *sessionStore
}

// NewService creates a Service from application configuration.
func NewService(cfg *config.Config) (*Service, error) {
	var cache *ContentCache
	if !cfg.Cache.Disabled && cfg.Cache.MaxEntries > 0 {
		c, err := NewContentCache(cfg.Cache.MaxEntries)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	return &Service{
		reader:              NewReader(cache),
		cache:               cache,
		limiter:             NewBatchLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		maxFileSize:         cfg.Upload.MaxFileSize,
		maxFilesPerCategory: cfg.Upload.MaxFilesPerCategory,
		sessions:            newSessionStore(cfg.Session.TTL, cfg.Session.MaxSessions),
	}, nil
}

// Ingest reads every upload in order, skipping files that cannot be read,
// and merges the rest.
//
// Files that fail are listed in BatchResult.Failures. When no file can be
// read the partial result is returned together with ErrEmptyInput, so the
// caller can still show which files were skipped and why.
func (s *Service) Ingest(ctx context.Context, uploads []Upload) (*BatchResult, error) {
	if err := s.checkFileCounts(uploads); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	logger := logging.FromContext(ctx)
	reader := s.reader.WithLogger(logger)
	start := time.Now()

	result := &BatchResult{FilesSeen: len(uploads)}
	tables := make([]*table.Table, 0, len(uploads))

	for i, up := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("reading file",
			"index", i+1,
			"total", len(uploads),
			"file", up.Name,
			"category", up.Category,
		)

		t, err := s.readUpload(reader, up)
		if err != nil {
			msg := MapError(err)
			logger.Warn("skipping file", "file", up.Name, "code", msg.Code, "error", err)
			result.Failures = append(result.Failures, FileFailure{
				FileName: up.Name,
				Category: up.Category,
				Reason:   err.Error(),
				Code:     msg.Code,
				Err:      err,
			})
			continue
		}

		tables = append(tables, t)
		result.Sources = append(result.Sources, SourceCount{
			FileName: up.Name,
			Category: up.Category,
			Rows:     t.Len(),
		})
	}
	result.TablesRead = len(tables)

	merged, err := Merge(tables)
	if err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.Merged = merged

	column, err := PickColumn(merged.Columns())
	if err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.DefaultColumn = column
	result.Duration = time.Since(start)

	logger.Info("batch merged",
		"files", result.FilesSeen,
		"tables_read", result.TablesRead,
		"failed", len(result.Failures),
		"rows", merged.Len(),
		"columns", merged.NumColumns(),
		"default_column", column,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (s *Service) readUpload(reader *Reader, up Upload) (*table.Table, error) {
	if s.maxFileSize > 0 && up.size() > s.maxFileSize {
		return nil, fmt.Errorf("%s: %w: %d bytes exceeds %d", up.Name, ErrFileTooLarge, up.size(), s.maxFileSize)
	}
	return reader.Read(up.Data, up.Name, up.Category)
}

func (s *Service) checkFileCounts(uploads []Upload) error {
	if s.maxFilesPerCategory <= 0 {
		return nil
	}
	counts := make(map[Category]int, len(Categories))
	for _, up := range uploads {
		counts[up.Category]++
	}
	for _, c := range Categories {
		if counts[c] > s.maxFilesPerCategory {
			return fmt.Errorf("%s: %w: %d files, limit is %d", c, ErrTooManyFiles, counts[c], s.maxFilesPerCategory)
		}
	}
	return nil
}

// FilterResult applies req to a batch's merged table. An empty req.Column
// means the batch's default column.
func FilterResult(result *BatchResult, req FilterRequest) (*table.Table, error) {
	if result == nil || result.Merged == nil {
		return nil, ErrEmptyInput
	}
	column := req.Column
	if column == "" {
		column = result.DefaultColumn
	}
	return Filter(result.Merged, column, req.Query, req.Exact)
}

// CreateSession stores a successful batch and returns its ID.
func (s *Service) CreateSession(result *BatchResult) string {
	return s.sessions.add(result)
}

// Session returns a live batch and refreshes its expiry.
func (s *Service) Session(id string) (*Batch, error) {
	return s.sessions.get(id)
}

// DeleteSession drops a batch before it expires.
func (s *Service) DeleteSession(id string) error {
	return s.sessions.remove(id)
}

// SweepSessions removes expired batches and returns how many were removed.
func (s *Service) SweepSessions() int {
	return s.sessions.sweep()
}

// SessionCount returns the number of live batches.
func (s *Service) SessionCount() int {
	return s.sessions.len()
}

// FilterSession filters a stored batch.
func (s *Service) FilterSession(id string, req FilterRequest) (*table.Table, error) {
	b, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	return FilterResult(b.Result, req)
}

// ExportAll renders a stored batch's merged table as a workbook.
func (s *Service) ExportAll(id string) (*Artifact, error) {
	b, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	data, err := ToWorkbookBytes(b.Result.Merged)
	if err != nil {
		return nil, fmt.Errorf("export merged: %w", err)
	}
	name, _ := ArtifactNames()
	return &Artifact{FileName: name, ContentType: XLSXContentType, Data: data}, nil
}

// ExportFiltered renders the filtered rows of a stored batch as a workbook.
func (s *Service) ExportFiltered(id string, req FilterRequest) (*Artifact, error) {
	filtered, err := s.FilterSession(id, req)
	if err != nil {
		return nil, err
	}
	data, err := ToWorkbookBytes(filtered)
	if err != nil {
		return nil, fmt.Errorf("export filtered: %w", err)
	}
	_, name := ArtifactNames()
	return &Artifact{FileName: name, ContentType: XLSXContentType, Data: data}, nil
}

// CacheStats reports parsed-file cache counters. Zero when caching is off.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// LimiterStatus reports batch slot occupancy.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForBatches blocks until in-flight batches finish or ctx ends.
func (s *Service) WaitForBatches(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
