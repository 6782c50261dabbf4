package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestNewTextReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "UTF-8 with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("SOL,TEN")...),
			expected: "SOL,TEN",
		},
		{
			name:     "UTF-8 without BOM",
			input:    []byte("SOL,TEN"),
			expected: "SOL,TEN",
		},
		{
			name:     "Vietnamese text kept",
			input:    []byte("CHI_NHANH\nHà Nội"),
			expected: "CHI_NHANH\nHà Nội",
		},
		{
			name:     "UTF-16LE with BOM",
			input:    []byte{0xFF, 0xFE, 'S', 0, 'O', 0, 'L', 0},
			expected: "SOL",
		},
		{
			name:     "UTF-16BE with BOM",
			input:    []byte{0xFE, 0xFF, 0, 'S', 0, 'O', 0, 'L'},
			expected: "SOL",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he�lo",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(NewTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	input := strings.Repeat("x", 1000)
	reader := NewCountingReader(strings.NewReader(input))

	buf := make([]byte, 100)
	totalRead := 0
	for {
		n, err := reader.Read(buf)
		totalRead += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if totalRead != len(input) {
		t.Errorf("total read = %d, want %d", totalRead, len(input))
	}
	if reader.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", reader.BytesRead, len(input))
	}
}
