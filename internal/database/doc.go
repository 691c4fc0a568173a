// Package database provides SQLite-based storage for proxyscope.
//
// The HistoryDB keeps one row per analysis run. Each row carries the full
// analysis as JSON together with a small summary (record counts and the
// score-bin counts) so history listings do not need to decode every report.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// database is a single file under the XDG data directory.
package database
