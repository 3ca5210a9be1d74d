package question

import (
	"fmt"
	"strconv"
	"strings"
)

// variantDelim separates option text from its point value. The right-most
// occurrence wins so the delimiter may appear inside option text.
const variantDelim = "||"

// MalformedLineError reports a variants-block line that cannot be split
// into text and points. It is a data-entry error, fatal for its row.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed variant line %q: %s", e.Line, e.Reason)
}

// Variant is one parsed line of the variants block.
type Variant struct {
	Text   string
	Points float64
}

// SplitLines returns the non-blank trimmed lines of a cell.
func SplitLines(cell string) []string {
	var out []string
	for _, ln := range strings.Split(cell, "\n") {
		ln = strings.TrimSpace(strings.TrimSuffix(ln, "\r"))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// ParseVariantLine splits a single "text||points" line. An empty right-hand
// side means zero points; a comma works as the decimal separator.
func ParseVariantLine(line string) (Variant, error) {
	idx := strings.LastIndex(line, variantDelim)
	if idx < 0 {
		return Variant{}, &MalformedLineError{Line: line, Reason: "missing '||' delimiter"}
	}
	text := strings.TrimSpace(line[:idx])
	raw := strings.TrimSpace(line[idx+len(variantDelim):])
	if raw == "" {
		return Variant{Text: text}, nil
	}
	points, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return Variant{}, &MalformedLineError{Line: line, Reason: fmt.Sprintf("non-numeric points %q", raw)}
	}
	return Variant{Text: text, Points: points}, nil
}

// ParseVariantsBlock parses the whole multi-line variants cell, preserving
// line order and skipping blank lines.
func ParseVariantsBlock(block string) ([]Variant, error) {
	var variants []Variant
	for _, ln := range SplitLines(block) {
		v, err := ParseVariantLine(ln)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// ParseCorrectList splits the correct-answer cell on ';', trimming tokens
// and dropping empties. Order is preserved; choice matching treats the
// result as a set, short-answer point assignment keeps duplicates.
func ParseCorrectList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Normalize prepares a string for equality checks: trim, lowercase,
// collapse internal whitespace runs to a single space.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
