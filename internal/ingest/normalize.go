package ingest

import (
	"strconv"
	"strings"
	"time"
)

// Row maps a source column header to its raw cell value. Spreadsheet cells
// may arrive already typed (time.Time, float64); CSV cells are plain strings.
// Headers not recognized by a marketplace schema are ignored.
type Row map[string]any

// cellString renders a raw cell as text without losing numeric precision.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case time.Time:
		return c.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// normString trims, treats "na" (any case) and blank as null, and silently
// truncates to maxLen runes to satisfy the destination column width.
func normString(row Row, header string, maxLen int) *string {
	s := strings.TrimSpace(cellString(row[header]))
	if s == "" || strings.EqualFold(s, "na") {
		return nil
	}
	if maxLen > 0 {
		if r := []rune(s); len(r) > maxLen {
			s = string(r[:maxLen])
		}
	}
	return &s
}

// stripNonNumeric removes every character that cannot be part of a decimal
// number. Source reports routinely carry currency symbols and thousands
// separators.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normFloat parses a numeric cell; unparseable values become nil, never an
// error.
func normFloat(row Row, header string) *float64 {
	if f, ok := row[header].(float64); ok {
		return &f
	}
	s := stripNonNumeric(strings.TrimSpace(cellString(row[header])))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// normInt parses an integer cell, tolerating decimal renderings like "2.0".
func normInt(row Row, header string) *int64 {
	f := normFloat(row, header)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

// normIdentifier reconstructs order/AWB numbers as exact plain-digit strings.
// Spreadsheets hand large identifiers back in scientific notation
// ("1.23E+11") or with a float ".0" tail; losing digits there is a
// correctness bug, so the expansion is done textually.
func normIdentifier(row Row, header string) *string {
	s := strings.TrimSpace(cellString(row[header]))
	if s == "" || strings.EqualFold(s, "na") {
		return nil
	}
	if expanded, ok := expandScientific(s); ok {
		s = expanded
	} else {
		s = trimFloatTail(s)
	}
	return &s
}

// expandScientific turns "1.2345E+8" into "123450000". It reports false when
// the input is not scientific notation or does not expand to a whole number.
func expandScientific(s string) (string, bool) {
	idx := strings.IndexAny(s, "eE")
	if idx <= 0 {
		return "", false
	}
	mantissa, expPart := s[:idx], s[idx+1:]
	expPart = strings.TrimPrefix(expPart, "+")
	exp, err := strconv.Atoi(expPart)
	if err != nil || exp < 0 {
		return "", false
	}
	neg := strings.HasPrefix(mantissa, "-")
	mantissa = strings.TrimPrefix(mantissa, "-")
	intPart, fracPart := mantissa, ""
	if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
		intPart, fracPart = mantissa[:dot], mantissa[dot+1:]
	}
	digits := intPart + fracPart
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if exp < len(fracPart) {
		// Would leave a fractional remainder; not an identifier.
		return "", false
	}
	digits += strings.Repeat("0", exp-len(fracPart))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	if neg {
		digits = "-" + digits
	}
	return digits, true
}

// trimFloatTail drops a redundant ".0"/".000" suffix from numeric text.
func trimFloatTail(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	if strings.Trim(s[dot+1:], "0") != "" {
		return s
	}
	return s[:dot]
}

// Date layouts attempted before the D/M/Y fallback.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normDate parses a date cell. Accepted inputs: native time.Time,
// ISO-parseable strings, and D/M/Y or D-M-Y with a 2- or 4-digit year
// (2-digit years are 2000-based), optionally followed by HH:MM[:SS].
// Anything else yields nil.
func normDate(row Row, header string) *time.Time {
	switch c := row[header].(type) {
	case time.Time:
		return &c
	case nil:
		return nil
	}
	s := strings.TrimSpace(cellString(row[header]))
	if s == "" || strings.EqualFold(s, "na") {
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return parseDayFirst(s)
}

// parseDayFirst handles D/M/Y and D-M-Y forms with an optional time suffix.
func parseDayFirst(s string) *time.Time {
	datePart := s
	timePart := ""
	if sp := strings.IndexByte(s, ' '); sp >= 0 {
		datePart, timePart = s[:sp], strings.TrimSpace(s[sp+1:])
	}

	sep := "/"
	if !strings.Contains(datePart, sep) {
		sep = "-"
	}
	parts := strings.Split(datePart, sep)
	if len(parts) != 3 {
		return nil
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if len(parts[2]) == 2 {
		year += 2000
	} else if len(parts[2]) != 4 {
		return nil
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	hour, minute, second := 0, 0, 0
	if timePart != "" {
		hms := strings.Split(timePart, ":")
		if len(hms) != 2 && len(hms) != 3 {
			return nil
		}
		hour, err1 = strconv.Atoi(hms[0])
		minute, err2 = strconv.Atoi(hms[1])
		if len(hms) == 3 {
			second, err3 = strconv.Atoi(hms[2])
		}
		if err1 != nil || err2 != nil || err3 != nil {
			return nil
		}
		if hour > 23 || minute > 59 || second > 59 {
			return nil
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/02 becomes March); reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return nil
	}
	return &t
}
