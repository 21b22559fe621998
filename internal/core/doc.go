// Package core imports delimited text files.
//
// The package sits between a transport (HTTP handlers, the CLI) and a
// [store.Store]. It owns everything that happens to a file after it is
// received and before its rows are persisted:
//
//  1. The header option is validated with [header.Validate]; an unset option
//     falls back to the configured default, and then to auto-detection.
//  2. The byte stream is decoded to UTF-8 and split into rows by
//     encoding/csv, skipping blank rows.
//  3. The first K rows are sampled and [header.Resolve] decides whether row 0
//     is a header.
//  4. Columns are named from the header row, or C1..Cn, unless the caller
//     supplies names.
//  5. Data rows are counted and, when enabled, persisted in batches.
//  6. An [store.ImportRecord] is saved.
//
// Memory stays O(batch size) regardless of file size. Concurrent imports are
// bounded by an [ImportLimiter].
//
// # Error Handling
//
// Operations return wrapped sentinel errors; [MapError] turns them into a
// [UserMessage] with a support code (HDR, FILE, IMP, DB, RATE).
package core
