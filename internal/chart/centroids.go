package chart

// LatLon is an approximate country centroid.
type LatLon struct {
	Lat float64
	Lon float64
}

// centroids maps country names as they appear in proxy intelligence feeds
// to approximate centroids.
var centroids = map[string]LatLon{
	"Afghanistan":            {33.9, 67.7},
	"Albania":                {41.2, 20.2},
	"Algeria":                {28.0, 1.7},
	"Argentina":              {-38.4, -63.6},
	"Armenia":                {40.1, 45.0},
	"Australia":              {-25.3, 133.8},
	"Austria":                {47.5, 14.6},
	"Azerbaijan":             {40.1, 47.6},
	"Bahrain":                {26.0, 50.6},
	"Bangladesh":             {23.7, 90.4},
	"Belarus":                {53.7, 27.95},
	"Belgium":                {50.5, 4.5},
	"Bolivia":                {-16.3, -63.6},
	"Bosnia and Herzegovina": {43.9, 17.7},
	"Brazil":                 {-14.2, -51.9},
	"Bulgaria":               {42.7, 25.5},
	"Cambodia":               {12.6, 105.0},
	"Cameroon":               {7.4, 12.4},
	"Canada":                 {56.1, -106.3},
	"Chile":                  {-35.7, -71.5},
	"China":                  {35.9, 104.2},
	"Colombia":               {4.6, -74.3},
	"Costa Rica":             {9.7, -83.8},
	"Croatia":                {45.1, 15.2},
	"Cuba":                   {21.5, -77.8},
	"Cyprus":                 {35.1, 33.4},
	"Czechia":                {49.8, 15.5},
	"Denmark":                {56.3, 9.5},
	"Dominican Republic":     {18.7, -70.2},
	"Ecuador":                {-1.8, -78.2},
	"Egypt":                  {26.8, 30.8},
	"Estonia":                {58.6, 25.0},
	"Ethiopia":               {9.1, 40.5},
	"Finland":                {61.9, 25.7},
	"France":                 {46.2, 2.2},
	"Georgia":                {42.3, 43.4},
	"Germany":                {51.2, 10.5},
	"Ghana":                  {7.9, -1.0},
	"Greece":                 {39.1, 21.8},
	"Guatemala":              {15.8, -90.2},
	"Honduras":               {15.2, -86.2},
	"Hong Kong":              {22.3, 114.2},
	"Hungary":                {47.2, 19.5},
	"Iceland":                {64.96, -19.0},
	"India":                  {20.6, 79.0},
	"Indonesia":              {-0.8, 113.9},
	"Iran":                   {32.4, 53.7},
	"Iraq":                   {33.2, 43.7},
	"Ireland":                {53.4, -8.2},
	"Israel":                 {31.0, 34.9},
	"Italy":                  {41.9, 12.6},
	"Jamaica":                {18.1, -77.3},
	"Japan":                  {36.2, 138.3},
	"Jordan":                 {30.6, 36.2},
	"Kazakhstan":             {48.0, 66.9},
	"Kenya":                  {-0.02, 37.9},
	"Kuwait":                 {29.3, 47.5},
	"Kyrgyzstan":             {41.2, 74.8},
	"Latvia":                 {56.9, 24.6},
	"Lebanon":                {33.9, 35.9},
	"Lithuania":              {55.2, 23.9},
	"Luxembourg":             {49.8, 6.1},
	"Malaysia":               {4.2, 102.0},
	"Malta":                  {35.9, 14.4},
	"Mexico":                 {23.6, -102.6},
	"Moldova":                {47.4, 28.4},
	"Mongolia":               {46.9, 103.8},
	"Montenegro":             {42.7, 19.4},
	"Morocco":                {31.8, -7.1},
	"Myanmar":                {21.9, 95.96},
	"Nepal":                  {28.4, 84.1},
	"Netherlands":            {52.1, 5.3},
	"New Zealand":            {-40.9, 174.9},
	"Nigeria":                {9.1, 8.7},
	"North Macedonia":        {41.6, 21.7},
	"Norway":                 {60.5, 8.5},
	"Oman":                   {21.5, 55.9},
	"Pakistan":               {30.4, 69.3},
	"Panama":                 {8.5, -80.8},
	"Paraguay":               {-23.4, -58.4},
	"Peru":                   {-9.2, -75.0},
	"Philippines":            {12.9, 121.8},
	"Poland":                 {51.9, 19.1},
	"Portugal":               {39.4, -8.2},
	"Puerto Rico":            {18.2, -66.6},
	"Qatar":                  {25.4, 51.2},
	"Romania":                {45.9, 25.0},
	"Russia":                 {61.5, 105.3},
	"Saudi Arabia":           {23.9, 45.1},
	"Senegal":                {14.5, -14.5},
	"Serbia":                 {44.0, 21.0},
	"Seychelles":             {-4.7, 55.5},
	"Singapore":              {1.35, 103.8},
	"Slovakia":               {48.7, 19.7},
	"Slovenia":               {46.2, 14.99},
	"South Africa":           {-30.6, 22.9},
	"South Korea":            {35.9, 127.8},
	"Spain":                  {40.5, -3.7},
	"Sri Lanka":              {7.9, 80.8},
	"Sweden":                 {60.1, 18.6},
	"Switzerland":            {46.8, 8.2},
	"Syria":                  {34.8, 39.0},
	"Taiwan":                 {23.7, 121.0},
	"Tajikistan":             {38.9, 71.3},
	"Tanzania":               {-6.4, 34.9},
	"Thailand":               {15.9, 100.99},
	"Tunisia":                {33.9, 9.5},
	"Turkey":                 {38.96, 35.2},
	"Turkmenistan":           {38.97, 59.6},
	"Uganda":                 {1.4, 32.3},
	"Ukraine":                {48.4, 31.2},
	"United Arab Emirates":   {23.4, 53.8},
	"United Kingdom":         {55.4, -3.4},
	"United States":          {37.1, -95.7},
	"Uruguay":                {-32.5, -55.8},
	"Uzbekistan":             {41.4, 64.6},
	"Venezuela":              {6.4, -66.6},
	"Vietnam":                {14.1, 108.3},
	"Yemen":                  {15.6, 48.5},
	"Zambia":                 {-13.1, 27.8},
	"Zimbabwe":               {-19.0, 29.2},
}

// aliases maps alternative spellings to the canonical key in centroids.
var aliases = map[string]string{
	"United States of America":                             "United States",
	"USA":                                                  "United States",
	"Russian Federation":                                   "Russia",
	"United Kingdom of Great Britain and Northern Ireland": "United Kingdom",
	"Korea (Republic of)":                                  "South Korea",
	"Republic of Korea":                                    "South Korea",
	"Iran (Islamic Republic of)":                           "Iran",
	"Viet Nam":                                             "Vietnam",
	"Czech Republic":                                       "Czechia",
	"Moldova (Republic of)":                                "Moldova",
	"Taiwan (Province of China)":                           "Taiwan",
	"Turkiye":                                              "Turkey",
	"Netherlands (Kingdom of the)":                         "Netherlands",
	"Bolivia (Plurinational State of)":                     "Bolivia",
	"Venezuela (Bolivarian Republic of)":                   "Venezuela",
	"Tanzania, United Republic of":                         "Tanzania",
	"Syrian Arab Republic":                                 "Syria",
}

// Locate returns the approximate centroid of the named country.
// Names are matched exactly, then through a small alias table.
func Locate(country string) (LatLon, bool) {
	if ll, ok := centroids[country]; ok {
		return ll, true
	}
	if canonical, ok := aliases[country]; ok {
		ll, ok := centroids[canonical]
		return ll, ok
	}
	return LatLon{}, false
}
