package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JonMunkholm/sheetmerge/internal/table"
)

// ============================================================================
// Fixtures
// ============================================================================

// benchCSV builds a CSV export with n data rows spread over a few branches.
func benchCSV(n int) []byte {
	var b strings.Builder
	b.WriteString("SOL,ACCOUNT,NAME,BALANCE\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%04d,%012d,Customer %d,%d.00\n", 1200+i%40, i, i, i*7)
	}
	return []byte(b.String())
}

func benchTable(b *testing.B, n int) *table.Table {
	b.Helper()
	t, err := NewReader(nil).Read(benchCSV(n), "bench.csv", CategoryCKH)
	if err != nil {
		b.Fatal(err)
	}
	return t
}

// ============================================================================
// Reader Benchmarks
// ============================================================================

// BenchmarkReadCSV measures parsing without the cache.
func BenchmarkReadCSV(b *testing.B) {
	data := benchCSV(10000)
	r := NewReader(nil)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Read(data, "bench.csv", CategoryCKH); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReadCSV_Cached measures a cache hit, which still hashes the file.
func BenchmarkReadCSV_Cached(b *testing.B) {
	data := benchCSV(10000)
	cache, err := NewContentCache(4)
	if err != nil {
		b.Fatal(err)
	}
	r := NewReader(cache)
	if _, err := r.Read(data, "bench.csv", CategoryCKH); err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Read(data, "bench.csv", CategoryCKH)
	}
}

// ============================================================================
// Merge and Filter Benchmarks
// ============================================================================

func BenchmarkMerge(b *testing.B) {
	tables := []*table.Table{benchTable(b, 5000), benchTable(b, 5000), benchTable(b, 5000)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Merge(tables); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilter(b *testing.B) {
	t := benchTable(b, 20000)

	cases := []struct {
		name  string
		query string
		exact bool
	}{
		{"exact", "1201,1205,1230", true},
		{"substring", "120", false},
		{"text", "CUSTOMER 19", false},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Filter(t, "SOL", tc.query, tc.exact); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// ============================================================================
// Export Benchmarks
// ============================================================================

func BenchmarkToWorkbookBytes(b *testing.B) {
	t := benchTable(b, 5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ToWorkbookBytes(t); err != nil {
			b.Fatal(err)
		}
	}
}
