package model

// Column names of the proxy intelligence CSV.
const (
	ColumnIPFrom      = "IP_FROM"
	ColumnProxyType   = "PROXY_TYPE"
	ColumnCountryName = "COUNTRY_NAME"
	ColumnISP         = "ISP"
	ColumnThreat      = "THREAT"
	ColumnFraudScore  = "FRAUD_SCORE"
)

// RequiredColumns lists the columns a source file must carry.
// The remaining known columns are read when present.
var RequiredColumns = []string{ColumnFraudScore, ColumnCountryName, ColumnISP}

// ProxyRecord is one cleaned row of the source file.
//
// Every text column is kept verbatim; IP ranges and labels that look numeric
// keep their leading zeros. FraudScore is always a parsed number: rows whose
// score could not be parsed never become a ProxyRecord.
type ProxyRecord struct {
	// IPFrom is the start of the IP range.
	IPFrom string `json:"ip_from"`

	// ProxyType is the proxy classification (e.g. "VPN", "PUB", "TOR").
	ProxyType string `json:"proxy_type"`

	// CountryName is the country name exactly as it appears in the file.
	CountryName string `json:"country_name"`

	// ISP is the internet service provider name.
	ISP string `json:"isp"`

	// Threat is the threat label, possibly empty.
	Threat string `json:"threat"`

	// FraudScore is the numeric risk indicator, conceptually 0-100.
	FraudScore float64 `json:"fraud_score"`

	// Extra holds any additional columns, keyed by normalized column name.
	Extra map[string]string `json:"extra,omitempty"`
}

// Dataset is the ordered collection of cleaned records produced by one load.
// A Dataset is never mutated after the loader returns it; a reload builds a
// new one.
type Dataset struct {
	// Source is the path the dataset was loaded from.
	Source string `json:"source"`

	// Columns is the normalized header, in file order.
	Columns []string `json:"columns"`

	// Records contains the cleaned records in file order.
	Records []ProxyRecord `json:"records"`

	// Dropped is the number of rows excluded because their fraud score
	// could not be parsed.
	Dropped int `json:"dropped"`
}

// Len returns the number of cleaned records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// CountScores returns the number of records whose fraud score satisfies keep.
func (d *Dataset) CountScores(keep func(score float64) bool) int {
	if d == nil {
		return 0
	}
	n := 0
	for i := range d.Records {
		if keep(d.Records[i].FraudScore) {
			n++
		}
	}
	return n
}

// CategoryCount is a category label with the number of records in it.
type CategoryCount struct {
	// Label is the category (bin label, country name or ISP name).
	Label string `json:"label"`

	// Count is the number of qualifying records in the category.
	Count int `json:"count"`
}

// Labels returns the labels of counts in order.
func Labels(counts []CategoryCount) []string {
	labels := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
	}
	return labels
}

// Total returns the sum of all counts.
func Total(counts []CategoryCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}
