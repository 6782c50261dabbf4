package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/sheetmerge/internal/core"
	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// loadUploads reads the files named on the command line, CKH first.
// Files over maxSize are passed with only their size so the service
// reports them without reading them into memory.
func loadUploads(opts options, maxSize int64) ([]core.Upload, error) {
	groups := []struct {
		category core.Category
		paths    []string
	}{
		{core.CategoryCKH, opts.ckh},
		{core.CategoryKKH, opts.kkh},
	}

	var uploads []core.Upload
	for _, g := range groups {
		for _, path := range g.paths {
			up, err := loadUpload(path, g.category, maxSize)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, up)
		}
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no input files: pass --ckh and/or --kkh")
	}
	return uploads, nil
}

func loadUpload(path string, category core.Category, maxSize int64) (core.Upload, error) {
	up := core.Upload{Name: filepath.Base(path), Category: category}

	f, err := os.Open(path)
	if err != nil {
		return up, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return up, err
	}
	up.Size = info.Size()
	if maxSize > 0 && up.Size > maxSize {
		return up, nil
	}

	up.Data, err = core.ReadAllLimited(f, maxSize)
	if err != nil {
		return up, fmt.Errorf("read %s: %w", path, err)
	}
	return up, nil
}

func writeWorkbook(path string, t *table.Table) error {
	data, err := core.ToWorkbookBytes(t)
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
