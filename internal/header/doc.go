// Package header decides whether the first row of a delimited file is a
// column-header row or a data row.
//
// Two entry points make up the package:
//
//   - [Validate] turns the raw value of a caller's "header" option into a
//     [Mode]. Conventional integers 1, 0 and -1 map to [ModeForceHeader],
//     [ModeAutoDetect] and [ModeForceNoHeader]; an unset value maps to
//     [ModeUnspecified], which resolves exactly like auto-detection.
//   - [Resolve] combines a Mode with a [Sample] of the first rows and returns
//     the [Disposition] the row-materialization stage uses to decide whether
//     row 0 is skipped and its tokens used as column names.
//
// # Auto-detection policy
//
// Auto-detection compares row 0 against the remaining sample rows. Row 0 is
// classified as a header only when every row has the same number of fields,
// no row-0 token looks numeric, and at least one column pairs a label-like
// row-0 token with numeric-looking tokens in every later row. Anything the
// heuristic cannot tell apart resolves to [HeaderAbsent], so a genuine data
// row is never dropped silently.
//
// Both functions are pure: they perform no I/O, keep no state and may be
// called concurrently. Resolution costs O(rows × fields) of the sample only.
package header
