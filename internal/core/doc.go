// Package core merges CKH and KKH account exports and filters the result.
//
// It has no transport dependencies; the web server and the CLI both drive it
// through [Service] or the package-level functions.
//
// # Pipeline
//
//  1. [Reader.Read] turns one .csv, .xlsx or .xls file into a [table.Table]
//     of nullable text cells, tagged with __SOURCE__ (file name) and
//     __TYPE__ (CKH or KKH). Parsed files are memoized in a [ContentCache].
//  2. [Merge] concatenates the tables in input order over the union of
//     their columns, first-seen order, null-filling gaps.
//  3. [PickColumn] proposes a branch-code column such as BRCD or SOL.
//  4. [Filter] keeps rows whose column value matches any comma-separated
//     token; with exact set, all-digit tokens must match the whole value.
//  5. [ToWorkbookBytes] writes a single-sheet workbook named DATA.
//
// A file that cannot be read is skipped and reported in
// [BatchResult.Failures]; the batch fails only when no file survives
// ([ErrEmptyInput]).
//
// # Sessions
//
// Merged batches are held in memory under a random ID until they expire.
// [Service.StartSessionJanitor] removes expired batches in the background.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Codes
// are grouped FILE (per-file), BAT (batch), SES (session), UPL (request) and
// RATE.
package core
