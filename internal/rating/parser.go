package rating

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalExpr = regexp.MustCompile(`\b(\d+\.\d+)\b`)
	integerExpr = regexp.MustCompile(`\b(\d+)\b`)
	wordExpr    = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\b`)
)

var wordValues = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Parse extracts the first numeric score from an untrusted oracle response
// and clamps it into [lo, hi]. Extraction tries a decimal numeral, then an
// integer, then a constrained set of written numbers (one through ten).
// Responses with no numeral at all fail with *UnparsableScoreError: an
// out-of-range number is still a usable signal, prose is not.
func Parse(raw string, lo, hi float64) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, &UnparsableScoreError{Raw: raw}
	}

	for _, expr := range []*regexp.Regexp{decimalExpr, integerExpr} {
		if match := expr.FindString(text); match != "" {
			value, err := strconv.ParseFloat(match, 64)
			if err != nil {
				continue
			}
			return clamp(value, lo, hi), nil
		}
	}

	if word := wordExpr.FindString(strings.ToLower(text)); word != "" {
		return clamp(wordValues[word], lo, hi), nil
	}

	return 0, &UnparsableScoreError{Raw: raw}
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
