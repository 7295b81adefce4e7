// Package csvimport reads word lists exported from Google Translate's
// saved phrases. Each line holds four columns:
//
//	sourceLanguage,targetLanguage,sourceText,targetText
//
// The Polish side of every row is found from the language labels, so lists
// translated in either direction import the same way.
package csvimport

import (
	"fmt"
	"io"
	"strings"

	"github.com/rubiojr/fiszki/pkg/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Result reports the words read from a CSV file and the rows that could not
// be read. A row with undetectable languages is imported and also reported.
type Result struct {
	Words          []core.CustomWord `json:"words"`
	Errors         []string          `json:"errors"`
	TotalRows      int               `json:"totalRows"`
	SuccessfulRows int               `json:"successfulRows"`
}

// Parse reads a Google Translate CSV export. Blank lines are skipped and do
// not count as rows. Word ids are the 1-based row numbers. Only a failure to
// read r is returned as an error; row problems land in Result.Errors.
func Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	result := &Result{
		Words:     []core.CustomWord{},
		Errors:    []string{},
		TotalRows: len(lines),
	}
	for i, line := range lines {
		row := i + 1
		columns := splitLine(line)
		if len(columns) < 4 {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Not enough columns (expected 4, got %d)", row, len(columns)))
			continue
		}

		sourceLanguage := strings.TrimSpace(columns[0])
		targetLanguage := strings.TrimSpace(columns[1])
		sourceText := strings.TrimSpace(columns[2])
		targetText := strings.TrimSpace(columns[3])
		if sourceText == "" || targetText == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Empty source or target text", row))
			continue
		}

		polish, english, ok := orient(sourceLanguage, targetLanguage, sourceText, targetText)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Could not determine Polish/English languages, assuming source is Polish", row))
		}

		result.Words = append(result.Words, core.CustomWord{
			ID:             row,
			Source:         polish,
			Target:         english,
			SourceLanguage: sourceLanguage,
			TargetLanguage: targetLanguage,
		})
		result.SuccessfulRows++
	}
	return result, nil
}

// orient returns the Polish and English texts of a row. ok is false when
// neither label names a known language; the source is then taken as Polish.
func orient(sourceLang, targetLang, source, target string) (polish, english string, ok bool) {
	switch {
	case isPolish(sourceLang):
		return source, target, true
	case isPolish(targetLang):
		return target, source, true
	case isEnglish(sourceLang):
		return target, source, true
	case isEnglish(targetLang):
		return source, target, true
	}
	return source, target, false
}

func isPolish(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "polish") || strings.Contains(l, "pol")
}

func isEnglish(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "english") || strings.Contains(l, "eng")
}

// splitLine splits one line on commas outside double quotes. Quotes only
// toggle quoting and are dropped, and a trailing carriage return is
// ignored.
func splitLine(line string) []string {
	line = strings.TrimSuffix(line, "\r")

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}
