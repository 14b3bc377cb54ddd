package csv

import (
	"fmt"
	"strings"

	"github.com/pricecomparator/price-service/internal/parsers/charset"
)

// Parser splits delimited text into records. It knows nothing about the meaning
// of the columns; mapping fields to typed rows is the caller's job.
type Parser struct {
	options Options
}

// NewParser creates a new CSV parser with the given options
func NewParser(options Options) *Parser {
	if options.QuoteChar == 0 {
		options.QuoteChar = '"'
	}
	return &Parser{
		options: options,
	}
}

// Parse decodes content to UTF-8 and splits it into records.
// A leading UTF-8 byte order mark is dropped.
func (p *Parser) Parse(content []byte) (*Table, error) {
	opts := p.options

	if opts.Encoding == "" {
		opts.Encoding = Encoding(charset.DetectEncoding(content))
	}

	decoded, err := charset.Decode(content, charset.Encoding(opts.Encoding))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	decoded = strings.TrimPrefix(decoded, "\ufeff")

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
	}
	delim, _ := firstRune(string(opts.Delimiter))

	table := &Table{Encoding: opts.Encoding}
	headerPending := opts.HasHeader

	for i, line := range splitLines(decoded) {
		rowNumber := i + 1
		if opts.SkipEmptyRows && strings.TrimSpace(line) == "" {
			continue
		}

		fields := SplitCSVLine(line, delim, opts.QuoteChar)
		for j, f := range fields {
			fields[j] = strings.TrimSpace(f)
		}

		if headerPending {
			table.Header = fields
			headerPending = false
			continue
		}

		table.Records = append(table.Records, Record{RowNumber: rowNumber, Fields: fields})
	}

	return table, nil
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ';', false
}
