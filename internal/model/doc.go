// Package model defines the core data structures used throughout proxyscope.
//
// This package contains the following main types:
//   - ProxyRecord: One cleaned row of the proxy intelligence CSV
//   - Dataset: The ordered, read-only collection of cleaned records
//   - CategoryCount: A (label, count) pair produced by the aggregators
//   - ChartKind: Identifies one of the four charts and its default output
//   - Analysis: The result of one run, consumed by reports and the history store
//
// Models live in their own package because the loader, the aggregators, the
// renderer, the reports and the history store all share them.
package model
