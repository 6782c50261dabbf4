package core

// streaming.go normalises delimited-text input before it reaches encoding/csv.
//
// Spreadsheet exports arrive in a few byte-level shapes:
//
//   - UTF-8 with a BOM (0xEF 0xBB 0xBF), common from Windows programs
//   - UTF-16 LE/BE with a BOM, from Excel's "Unicode Text" save option
//   - Plain UTF-8 that contains a few invalid bytes
//
// NewTextReader turns all of them into clean UTF-8 on the fly: the BOM picks
// the decoder and is dropped, and invalid sequences become U+FFFD instead of
// failing the whole file.

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader wraps r so that reads yield BOM-free, valid UTF-8.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}
