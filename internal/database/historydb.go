package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/proxyscope/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "proxyscope.db"

// storedTimeFormat is a fixed-width layout so generated_at sorts lexically.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z"

// ErrAnalysisNotFound is returned when no stored analysis matches a lookup.
var ErrAnalysisNotFound = errors.New("analysis not found")

// HistoryDB provides SQLite-based storage for past analysis runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		record_count INTEGER NOT NULL,
		dropped_count INTEGER NOT NULL,
		high_risk_count INTEGER NOT NULL,
		score_summary TEXT,
		analysis_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_source ON analyses(source);
	CREATE INDEX IF NOT EXISTS idx_analyses_generated ON analyses(generated_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAnalysis stores the analysis and returns its row ID.
func (hdb *HistoryDB) SaveAnalysis(ctx context.Context, analysis *model.Analysis) (int64, error) {
	if analysis == nil {
		return 0, errors.New("analysis is nil")
	}

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize analysis: %w", err)
	}

	summary := make(map[string]int, len(analysis.ScoreDistribution))
	for _, bin := range analysis.ScoreDistribution {
		summary[bin.Label] = bin.Count
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // map[string]int always marshals

	query := `
	INSERT INTO analyses (source, generated_at, record_count, dropped_count, high_risk_count, score_summary, analysis_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		analysis.Source,
		analysis.GeneratedAt.UTC().Format(storedTimeFormat),
		analysis.RecordCount,
		analysis.DroppedCount,
		analysis.HighRiskTotal(),
		string(summaryJSON),
		string(analysisJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read analysis id: %w", err)
	}
	return id, nil
}

// GetLatest retrieves the most recent analysis of a source.
// It returns ErrAnalysisNotFound when the source has no history.
func (hdb *HistoryDB) GetLatest(ctx context.Context, source string) (*model.Analysis, error) {
	query := `
	SELECT analysis_json FROM analyses
	WHERE source = ?
	ORDER BY generated_at DESC, id DESC
	LIMIT 1
	`

	return hdb.queryAnalysis(ctx, query, source)
}

// GetAnalysisByID retrieves an analysis by its database ID.
// It returns ErrAnalysisNotFound when no row has that ID.
func (hdb *HistoryDB) GetAnalysisByID(ctx context.Context, id int64) (*model.Analysis, error) {
	query := `
	SELECT analysis_json FROM analyses
	WHERE id = ?
	`

	return hdb.queryAnalysis(ctx, query, id)
}

// queryAnalysis runs a single-row query selecting analysis_json.
func (hdb *HistoryDB) queryAnalysis(ctx context.Context, query string, arg any) (*model.Analysis, error) {
	var analysisJSON string
	err := hdb.db.QueryRowContext(ctx, query, arg).Scan(&analysisJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	return &analysis, nil
}

// ListSources returns every source that has stored history, sorted.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM analyses
	ORDER BY source
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// AnalysisMetadata contains summary information about a stored analysis.
// This is used for displaying history without loading the full analysis.
type AnalysisMetadata struct {
	// ID is the unique identifier of the analysis in the database.
	ID int64 `json:"id"`

	// Source is the analyzed CSV file.
	Source string `json:"source"`

	// GeneratedAt is when the analysis was performed.
	GeneratedAt time.Time `json:"generated_at"`

	// RecordCount is the number of cleaned records.
	RecordCount int `json:"record_count"`

	// DroppedCount is the number of rows dropped during cleaning.
	DroppedCount int `json:"dropped_count"`

	// HighRiskCount is the number of records scoring above the high-risk threshold.
	HighRiskCount int `json:"high_risk_count"`

	// ScoreSummary maps each score-bin label to its count.
	ScoreSummary map[string]int `json:"score_summary"`
}

// GetHistory retrieves analysis metadata for a source, newest first.
// An empty source lists the history of every source.
func (hdb *HistoryDB) GetHistory(ctx context.Context, source string) ([]AnalysisMetadata, error) {
	query := `
	SELECT id, source, generated_at, record_count, dropped_count, high_risk_count, score_summary
	FROM analyses
	WHERE ? = '' OR source = ?
	ORDER BY generated_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, source, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []AnalysisMetadata
	for rows.Next() {
		var meta AnalysisMetadata
		var generatedAt string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Source, &generatedAt,
			&meta.RecordCount, &meta.DroppedCount, &meta.HighRiskCount, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.GeneratedAt = parseTimestamp(generatedAt)

		meta.ScoreSummary = make(map[string]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.ScoreSummary); err != nil {
				meta.ScoreSummary = make(map[string]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimeFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
