package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/proxyscope/internal/model"
)

// Default configuration values.
const (
	// DefaultDataFile is the CSV file analyzed when no path is given.
	DefaultDataFile = "PROXYSCOPEW.csv"

	// DefaultOutputDir is where chart images are written.
	DefaultOutputDir = "."

	// DefaultBatchSize is the number of files processed concurrently.
	// Rendering is CPU bound, so a small value keeps memory usage flat.
	DefaultBatchSize = 4

	// DefaultListenAddr is the dashboard address. The port matches the
	// one the original dashboard was served on.
	DefaultListenAddr = "127.0.0.1:8501"

	// AppName is the application name used for XDG directory paths.
	AppName = "proxyscope"
)

// DefaultHighlight lists the countries highlighted in the country chart
// unless the configuration file says otherwise.
var DefaultHighlight = []string{"United States", "Russia"}

// Config holds all configuration options for proxyscope.
// It is populated from CLI flags and the optional configuration file, and
// passed through the application rather than kept in global state.
type Config struct {
	// DataFiles is the list of CSV files to analyze.
	DataFiles []string

	// OutputDir is the directory chart images are written to.
	OutputDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of files analyzed concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .proxyscope in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Settings holds the chart overrides loaded from the configuration file.
	// It is nil when no configuration file was found.
	Settings *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ListenAddr is the dashboard address in "host:port" format.
	ListenAddr string

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/proxyscope on Linux).
	DBDir string

	// SaveToDB indicates whether analysis summaries are saved to the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DataFiles:  []string{DefaultDataFile},
		OutputDir:  DefaultOutputDir,
		BatchSize:  DefaultBatchSize,
		ListenAddr: DefaultListenAddr,
		DBDir:      XDGDataDir(),
		SaveToDB:   true,
	}
}

// XDGDataDir returns the XDG data directory for proxyscope.
// On Linux: ~/.local/share/proxyscope
// On macOS: ~/Library/Application Support/proxyscope
// On Windows: %LOCALAPPDATA%\proxyscope
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ChartSpec returns the export settings of a chart kind: the built-in
// defaults with any configuration file override applied.
func (c *Config) ChartSpec(kind model.ChartKind) model.ChartSpec {
	if c.Settings == nil {
		return model.DefaultChartSpec(kind)
	}
	return c.Settings.GetChartSpec(kind)
}

// Highlight returns the countries highlighted in the country chart.
func (c *Config) Highlight() []string {
	if c.Settings != nil && len(c.Settings.Highlight) > 0 {
		return c.Settings.Highlight
	}
	return DefaultHighlight
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if len(c.DataFiles) == 0 {
		return ErrNoDataFile
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.OutputDir == "" {
		return ErrEmptyOutputDir
	}

	if c.ListenAddr == "" {
		return ErrInvalidListenAddr
	}

	if c.Settings != nil {
		return c.Settings.Validate()
	}
	return nil
}
