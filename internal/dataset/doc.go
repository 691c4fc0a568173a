// Package dataset loads and cleans proxy intelligence CSV files.
//
// Load parses a file into a model.Dataset: column names are trimmed, the
// FRAUD_SCORE column is coerced to a number and rows whose score cannot be
// parsed are dropped. Every other column is kept verbatim as text.
//
// A missing file is reported with ErrFileNotFound so that callers can skip
// all downstream work and show a message instead of failing.
//
// Cache memoizes loaded datasets keyed by path, modification time and size.
// A cached dataset is an immutable snapshot: Reload and Invalidate replace or
// drop it as a whole, they never modify it.
package dataset
