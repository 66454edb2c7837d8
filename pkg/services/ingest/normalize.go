package ingest

import (
	"strconv"
	"strings"
)

// Normalize converts a spreadsheet cell into a number. It accepts nil, numeric values and
// pt-BR formatted text ("R$ 1.234,56", "12,5%", "-"). Periods are read as thousands
// separators and commas as the decimal separator. Anything that cannot be read yields 0.
func Normalize(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		return normalizeText(v)
	default:
		return 0
	}
}

func normalizeText(s string) float64 {
	if s == "-" {
		return 0
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		case r == '.':
			// thousands separator
		}
	}

	return parseLeadingFloat(b.String())
}

// parseLeadingFloat reads the longest "-ddd.ddd" prefix of s, so "12-3" is 12 and
// "1.2.3" is 1.2. It returns 0 when no digit leads the string.
func parseLeadingFloat(s string) float64 {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - start

	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if intDigits > 0 || j > i+1 {
			i = j
		}
	}
	if i == start {
		return 0
	}

	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || v == 0 {
		return 0
	}
	return v
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
