package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Notation selects the decimal separator of an export's amount column.
type Notation int

const (
	// NotationAuto picks the separator from the string itself and rejects
	// strings where it cannot tell, such as "1.234".
	NotationAuto Notation = iota
	// NotationCommaDecimal reads "1.234,56".
	NotationCommaDecimal
	// NotationPointDecimal reads "1,234.56".
	NotationPointDecimal
)

// ParseAmount converts a locale-formatted amount to an exact decimal.
func ParseAmount(s string, n Notation) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	if s == "" {
		return decimal.Decimal{}, ErrMalformedAmount
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Decimal{}, ErrMalformedAmount
		}
	}

	dec, thou, err := separators(s, n)
	if err != nil {
		return decimal.Decimal{}, err
	}

	intPart, frac := s, ""
	if dec != 0 {
		if strings.Count(s, string(dec)) > 1 {
			return decimal.Decimal{}, ErrMalformedAmount
		}
		if i := strings.IndexByte(s, dec); i >= 0 {
			intPart, frac = s[:i], s[i+1:]
			if frac == "" || !allDigits(frac) {
				return decimal.Decimal{}, ErrMalformedAmount
			}
		}
	}

	digits, ok := ungroup(intPart, thou)
	if !ok {
		return decimal.Decimal{}, ErrMalformedAmount
	}
	if frac != "" {
		digits += "." + frac
	}
	return decimal.NewFromString(sign + digits)
}

// separators returns the decimal and thousands separators of s; zero means absent.
func separators(s string, n Notation) (dec, thou byte, err error) {
	switch n {
	case NotationCommaDecimal:
		return ',', '.', nil
	case NotationPointDecimal:
		return '.', ',', nil
	}

	lastComma := strings.LastIndexByte(s, ',')
	lastPoint := strings.LastIndexByte(s, '.')
	switch {
	case lastComma < 0 && lastPoint < 0:
		return 0, 0, nil
	case lastComma >= 0 && lastPoint >= 0:
		if lastComma > lastPoint {
			return ',', '.', nil
		}
		return '.', ',', nil
	}

	sep, other, last := byte(','), byte('.'), lastComma
	if lastPoint >= 0 {
		sep, other, last = '.', ',', lastPoint
	}
	if strings.Count(s, string(sep)) > 1 {
		return 0, sep, nil
	}
	// "1.234" could be grouping; "0.123" and "1234.567" cannot.
	if lead := s[:last]; len(s)-last-1 == 3 && len(lead) >= 1 && len(lead) <= 3 && lead[0] != '0' {
		return 0, 0, ErrAmbiguousAmount
	}
	return sep, other, nil
}

func ungroup(s string, thou byte) (string, bool) {
	if thou == 0 || strings.IndexByte(s, thou) < 0 {
		return s, allDigits(s)
	}
	groups := strings.Split(s, string(thou))
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return "", false
	}
	for i, g := range groups {
		if !allDigits(g) || (i > 0 && len(g) != 3) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
