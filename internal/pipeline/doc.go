// Package pipeline provides a framework for executing analysis steps in sequence.
//
// A proxy dataset is processed through several stages: loading and cleaning,
// the four aggregations (score distribution, top countries, top ISPs and
// geographic totals), chart export and history recording. Each stage is a
// Step that receives the current Analysis and fills in its part.
//
// The aggregation steps are independent of one another and only read the
// immutable dataset; the export step renders its figures concurrently with
// errgroup. BatchProcessor runs the whole pipeline over several files with a
// concurrency limit.
package pipeline
