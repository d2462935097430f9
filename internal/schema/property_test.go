package schema

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseMultipleFlagProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("surrounding whitespace never changes the result", prop.ForAll(
		func(token string, left, right int) bool {
			padded := strings.Repeat(" ", left) + token + strings.Repeat("\t", right)
			return ParseMultipleFlag(padded) == ParseMultipleFlag(token)
		},
		gen.AlphaString(),
		gen.IntRange(0, 3),
		gen.IntRange(0, 2),
	))

	properties.Property("letter case never changes the result", prop.ForAll(
		func(token string) bool {
			return ParseMultipleFlag(strings.ToLower(token)) == ParseMultipleFlag(strings.ToUpper(token))
		},
		gen.AlphaString(),
	))

	properties.Property("unrecognized alphabetic tokens default to false", prop.ForAll(
		func(token string) bool {
			trimmed := strings.TrimSpace(token)
			switch strings.ToUpper(trimmed) {
			case "TRUE", "YES", "Y":
				return ParseMultipleFlag(token)
			}
			if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
				// spellings like "inf" take the numeric path
				return true
			}
			return !ParseMultipleFlag(token)
		},
		gen.AlphaString(),
	))

	properties.Property("nonzero numbers are true, zero is false", prop.ForAll(
		func(n int) bool {
			return ParseMultipleFlag(strconv.Itoa(n)) == (n != 0)
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
