package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() so that
// callers can use errors.Is() for programmatic error handling.
var (
	// ErrNoDataFile is returned when no CSV file is specified.
	ErrNoDataFile = errors.New("no data file specified: provide the path of a proxy CSV file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no file is ever processed.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyOutputDir is returned when the chart output directory is empty.
	ErrEmptyOutputDir = errors.New("invalid output directory: must not be empty")

	// ErrInvalidListenAddr is returned when the dashboard listen address is empty.
	ErrInvalidListenAddr = errors.New("invalid listen address: must be host:port")

	// ErrUnknownChart is returned when the configuration file names a chart
	// kind other than score, country, isp or geo.
	ErrUnknownChart = errors.New("unknown chart in configuration file")

	// ErrInvalidChartSize is returned when a configured chart width or height
	// is outside the supported pixel range.
	ErrInvalidChartSize = errors.New("invalid chart size")
)
