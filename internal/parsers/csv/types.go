package csv

// Delimiter represents supported CSV delimiters
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)

// Encoding represents supported encodings
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
	EncodingISO88592    Encoding = "iso-8859-2"
)

// Options configures the parser. Empty Delimiter or Encoding means auto-detect.
type Options struct {
	Delimiter     Delimiter `json:"delimiter,omitempty"`
	Encoding      Encoding  `json:"encoding,omitempty"`
	HasHeader     bool      `json:"hasHeader,omitempty"`
	SkipEmptyRows bool      `json:"skipEmptyRows,omitempty"`
	QuoteChar     rune      `json:"quoteChar,omitempty"`
}

// SnapshotOptions are the options for price and discount snapshot files:
// semicolon separated, one header row, encoding detected per file.
func SnapshotOptions() Options {
	return Options{
		Delimiter:     DelimiterSemicolon,
		HasHeader:     true,
		SkipEmptyRows: true,
		QuoteChar:     '"',
	}
}

// Record is one data line split into trimmed fields.
// RowNumber is 1-based and counts the header line.
type Record struct {
	RowNumber int
	Fields    []string
}

// Table is the result of splitting a file into records
type Table struct {
	Header   []string
	Records  []Record
	Encoding Encoding
}
