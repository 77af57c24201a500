package search

import (
	"regexp"
	"strconv"
	"strings"
)

// A unit letter only counts when it ends the word, so "5000 monthly" or "80000 MXN" stay unscaled.
var salaryNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([km]\b)?`)

// ParseSalaryRange extracts numeric bounds from free-form salary text such as
// "$80,000 - $120,000", "90k-110k" or "100000". Both bounds are nil when no number is found;
// a single number yields equal bounds.
func ParseSalaryRange(s string) (lo, hi *int64) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", "")

	matches := salaryNumberRe.FindAllStringSubmatch(s, 2)
	if len(matches) == 0 {
		return nil, nil
	}

	vals := make([]int64, 0, 2)
	suffixes := make([]string, 0, 2)
	for _, m := range matches {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		vals = append(vals, int64(f*multiplier(m[2])))
		suffixes = append(suffixes, m[2])
	}
	if len(vals) == 0 {
		return nil, nil
	}

	// "90-110k": the trailing unit applies to both bounds.
	if len(vals) == 2 && suffixes[0] == "" && suffixes[1] != "" {
		f, err := strconv.ParseFloat(matches[0][1], 64)
		if err == nil {
			vals[0] = int64(f * multiplier(suffixes[1]))
		}
	}

	a, b := vals[0], vals[0]
	if len(vals) == 2 {
		b = vals[1]
	}
	if a > b {
		a, b = b, a
	}
	return &a, &b
}

func multiplier(suffix string) float64 {
	switch suffix {
	case "k":
		return 1_000
	case "m":
		return 1_000_000
	default:
		return 1
	}
}
