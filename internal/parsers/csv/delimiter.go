package csv

import (
	"strings"
	"unicode/utf8"
)

// DetectDelimiter picks the delimiter whose per-line count is highest and most
// consistent across the first five non-empty lines. Defaults to semicolon.
func DetectDelimiter(content string) Delimiter {
	sample := make([]string, 0, 5)
	for _, line := range splitLines(content) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) == 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return DelimiterSemicolon
	}

	best := DelimiterSemicolon
	bestScore := 0.0
	for _, delim := range []Delimiter{DelimiterSemicolon, DelimiterComma, DelimiterTab} {
		counts := make([]float64, len(sample))
		sum := 0.0
		for i, line := range sample {
			counts[i] = float64(strings.Count(line, string(delim)))
			sum += counts[i]
		}
		avg := sum / float64(len(sample))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, c := range counts {
			variance += (c - avg) * (c - avg)
		}
		variance /= float64(len(sample))

		if score := avg / (1.0 + variance); score > bestScore {
			bestScore = score
			best = delim
		}
	}
	return best
}

// SplitCSVLine splits a line on delimiter, honouring quoted fields and doubled quotes.
func SplitCSVLine(line string, delimiter rune, quoteChar rune) []string {
	fields := make([]string, 0, 10)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		r, width := utf8.DecodeRuneInString(line[i:])
		i += width

		switch {
		case inQuotes && r == quoteChar:
			if next, w := utf8.DecodeRuneInString(line[i:]); i < len(line) && next == quoteChar {
				current.WriteRune(quoteChar)
				i += w
				continue
			}
			inQuotes = false
		case inQuotes:
			current.WriteRune(r)
		case r == quoteChar:
			inQuotes = true
		case r == delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, current.String())
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}
