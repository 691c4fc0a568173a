package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeCSV writes content to a temporary CSV file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "proxies.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

const sampleCSV = `IP_FROM, PROXY_TYPE, COUNTRY_NAME, ISP, THREAT, FRAUD_SCORE
0001, VPN, United States, Acme Net, SPAM, 65
0002, PUB, Russia, Ural Telecom, BOTNET, 70
0003, TOR, Germany, Berlin Hosting, -, 85.5
0004, DCH, United States, Acme Net, SCANNER, 100
0005, VPN, France, Paris Fiber, -, bad
`

// TestLoad tests loading and cleaning of a CSV file.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("drops rows with unparseable score", func(t *testing.T) {
		t.Parallel()

		ds, err := Load(writeCSV(t, sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ds.Len() != 4 {
			t.Errorf("expected 4 records, got %d", ds.Len())
		}
		if ds.Dropped != 1 {
			t.Errorf("expected 1 dropped row, got %d", ds.Dropped)
		}

		want := []float64{65, 70, 85.5, 100}
		for i, rec := range ds.Records {
			if rec.FraudScore != want[i] {
				t.Errorf("record %d: expected score %v, got %v", i, want[i], rec.FraudScore)
			}
		}
	})

	t.Run("trims column names and leading field whitespace", func(t *testing.T) {
		t.Parallel()

		ds, err := Load(writeCSV(t, sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantColumns := []string{"IP_FROM", "PROXY_TYPE", "COUNTRY_NAME", "ISP", "THREAT", "FRAUD_SCORE"}
		if !reflect.DeepEqual(ds.Columns, wantColumns) {
			t.Errorf("expected columns %v, got %v", wantColumns, ds.Columns)
		}
		if ds.Records[0].CountryName != "United States" {
			t.Errorf("expected country 'United States', got %q", ds.Records[0].CountryName)
		}
	})

	t.Run("keeps numeric-looking text columns verbatim", func(t *testing.T) {
		t.Parallel()

		ds, err := Load(writeCSV(t, sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ds.Records[0].IPFrom != "0001" {
			t.Errorf("expected IP_FROM '0001', got %q", ds.Records[0].IPFrom)
		}
	})

	t.Run("records the source path", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, sampleCSV)
		ds, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Source != path {
			t.Errorf("expected source %q, got %q", path, ds.Source)
		}
	})

	t.Run("missing file returns ErrFileNotFound", func(t *testing.T) {
		t.Parallel()

		ds, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
		if ds != nil {
			t.Error("expected nil dataset")
		}
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected error to match fs.ErrNotExist, got %v", err)
		}
		if !IsNotFound(err) {
			t.Error("expected IsNotFound to be true")
		}
	})

	t.Run("loading twice yields identical datasets", func(t *testing.T) {
		t.Parallel()

		path := writeCSV(t, sampleCSV)
		first, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("expected identical datasets")
		}
	})
}

// TestLoaderRead tests parsing edge cases from an in-memory reader.
func TestLoaderRead(t *testing.T) {
	t.Parallel()

	t.Run("empty input returns ErrEmptyFile", func(t *testing.T) {
		t.Parallel()

		_, err := NewLoader().Read(strings.NewReader(""))
		if !errors.Is(err, ErrEmptyFile) {
			t.Errorf("expected ErrEmptyFile, got %v", err)
		}
	})

	t.Run("missing required column returns ErrMissingColumn", func(t *testing.T) {
		t.Parallel()

		_, err := NewLoader().Read(strings.NewReader("IP_FROM,COUNTRY_NAME,ISP\n1,France,Orange\n"))
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("expected ErrMissingColumn, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "FRAUD_SCORE") {
			t.Errorf("expected error to name the column, got %v", err)
		}
	})

	t.Run("header only yields empty dataset", func(t *testing.T) {
		t.Parallel()

		ds, err := NewLoader().Read(strings.NewReader("COUNTRY_NAME,ISP,FRAUD_SCORE\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 0 {
			t.Errorf("expected 0 records, got %d", ds.Len())
		}
	})

	t.Run("strips byte order mark from first column", func(t *testing.T) {
		t.Parallel()

		ds, err := NewLoader().Read(strings.NewReader("\ufeffFRAUD_SCORE,COUNTRY_NAME,ISP\n90,Chile,Entel\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Columns[0] != "FRAUD_SCORE" {
			t.Errorf("expected FRAUD_SCORE, got %q", ds.Columns[0])
		}
		if ds.Len() != 1 {
			t.Errorf("expected 1 record, got %d", ds.Len())
		}
	})

	t.Run("bare quotes in unquoted fields are kept", func(t *testing.T) {
		t.Parallel()

		input := "IP_FROM,COUNTRY_NAME,ISP,FRAUD_SCORE\n1.0.0.1,Chile,Acme 5\" Networks,91\n1.0.0.2,Peru,Entel,88\n"
		ds, err := NewLoader().Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 2 {
			t.Fatalf("expected 2 records, got %d", ds.Len())
		}
		if got := ds.Records[0].ISP; got != `Acme 5" Networks` {
			t.Errorf("expected ISP kept literally, got %q", got)
		}
		if ds.Records[0].FraudScore != 91 {
			t.Errorf("expected score 91, got %v", ds.Records[0].FraudScore)
		}
	})

	t.Run("short rows read absent fields as empty", func(t *testing.T) {
		t.Parallel()

		ds, err := NewLoader().Read(strings.NewReader("FRAUD_SCORE,COUNTRY_NAME,ISP,THREAT\n80,Peru\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 1 {
			t.Fatalf("expected 1 record, got %d", ds.Len())
		}
		rec := ds.Records[0]
		if rec.CountryName != "Peru" || rec.ISP != "" || rec.Threat != "" {
			t.Errorf("unexpected record: %+v", rec)
		}
	})

	t.Run("empty country is passed through", func(t *testing.T) {
		t.Parallel()

		ds, err := NewLoader().Read(strings.NewReader("FRAUD_SCORE,COUNTRY_NAME,ISP\n90,,Some ISP\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 1 || ds.Records[0].CountryName != "" {
			t.Errorf("expected one record with empty country, got %+v", ds.Records)
		}
	})

	t.Run("unknown columns are passed through as text", func(t *testing.T) {
		t.Parallel()

		ds, err := NewLoader().Read(strings.NewReader("FRAUD_SCORE,COUNTRY_NAME,ISP,ASN\n90,Chile,Entel,007\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ds.Records[0].Extra["ASN"]; got != "007" {
			t.Errorf("expected ASN '007', got %q", got)
		}
	})

	t.Run("custom delimiter", func(t *testing.T) {
		t.Parallel()

		ds, err := NewLoader(WithComma(';')).Read(strings.NewReader("FRAUD_SCORE;COUNTRY_NAME;ISP\n95;Chile;Entel\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 1 || ds.Records[0].ISP != "Entel" {
			t.Errorf("unexpected records: %+v", ds.Records)
		}
	})
}

// TestParseScore tests fraud-score coercion.
func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "integer", input: "70", want: 70, wantOK: true},
		{name: "decimal", input: "85.5", want: 85.5, wantOK: true},
		{name: "surrounding spaces", input: "  99 ", want: 99, wantOK: true},
		{name: "negative", input: "-1", want: -1, wantOK: true},
		{name: "exponent", input: "1e2", want: 100, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "blank", input: "   ", wantOK: false},
		{name: "text", input: "bad", wantOK: false},
		{name: "nan", input: "NaN", wantOK: false},
		{name: "hexadecimal", input: "0x1p4", wantOK: false},
		{name: "trailing garbage", input: "80%", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseScore(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseScore(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseScore(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
