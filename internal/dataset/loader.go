package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/proxyscope/internal/model"
)

// Loader reads proxy intelligence CSV files.
type Loader struct {
	// logger receives debug output about dropped rows.
	logger *slog.Logger

	// comma is the field delimiter.
	comma rune
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for row-level diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) LoaderOption {
	return func(l *Loader) {
		if r != 0 {
			l.comma = r
		}
	}
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		comma: ',',
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load reads and cleans the file at path.
// If the file does not exist the returned error matches ErrFileNotFound.
func Load(path string, opts ...LoaderOption) (*model.Dataset, error) {
	return NewLoader(opts...).Load(path)
}

// Load reads and cleans the file at path.
func (l *Loader) Load(path string) (*model.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // reading a user-supplied data file is the purpose
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ds.Source = path

	l.logger.Debug("dataset loaded",
		"source", path,
		"records", ds.Len(),
		"dropped", ds.Dropped,
	)
	return ds, nil
}

// Read parses CSV content from r into a cleaned dataset.
// The returned dataset has an empty Source.
func (l *Loader) Read(r io.Reader) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	// Bare quotes inside unquoted fields are kept as text.
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := normalizeHeader(header)
	idx := indexColumns(columns)
	for _, name := range model.RequiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	ds := &model.Dataset{
		Columns: columns,
		Records: make([]model.ProxyRecord, 0),
	}

	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		score, ok := ParseScore(field(fields, idx, model.ColumnFraudScore))
		if !ok {
			ds.Dropped++
			l.logger.Debug("dropping row with unparseable fraud score",
				"line", line,
				"ip_from", field(fields, idx, model.ColumnIPFrom),
				"value", field(fields, idx, model.ColumnFraudScore),
			)
			continue
		}

		ds.Records = append(ds.Records, buildRecord(columns, fields, idx, score))
	}

	return ds, nil
}

// ParseScore converts a raw fraud-score field to a number.
// Empty, NaN, hexadecimal and otherwise malformed values report false.
func ParseScore(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// normalizeHeader trims whitespace and a leading byte order mark from every
// column name.
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}
	return columns
}

// indexColumns maps column names to positions. The first occurrence of a
// duplicated name wins.
func indexColumns(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

// field returns the value of the named column, or "" when the column is
// absent or the row is short.
func field(fields []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// knownColumns are stored in dedicated ProxyRecord fields.
var knownColumns = map[string]bool{
	model.ColumnIPFrom:      true,
	model.ColumnProxyType:   true,
	model.ColumnCountryName: true,
	model.ColumnISP:         true,
	model.ColumnThreat:      true,
	model.ColumnFraudScore:  true,
}

func buildRecord(columns, fields []string, idx map[string]int, score float64) model.ProxyRecord {
	rec := model.ProxyRecord{
		IPFrom:      field(fields, idx, model.ColumnIPFrom),
		ProxyType:   field(fields, idx, model.ColumnProxyType),
		CountryName: field(fields, idx, model.ColumnCountryName),
		ISP:         field(fields, idx, model.ColumnISP),
		Threat:      field(fields, idx, model.ColumnThreat),
		FraudScore:  score,
	}

	for i, name := range columns {
		if knownColumns[name] || name == "" || idx[name] != i {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		if i < len(fields) {
			rec.Extra[name] = fields[i]
		} else {
			rec.Extra[name] = ""
		}
	}
	return rec
}
