package schema

import (
	"strconv"
	"strings"
)

// ParseMultipleFlag interprets a spreadsheet cell as the multi-value field
// indicator. Parsing is deliberately lenient: unrecognized tokens read as
// false instead of failing, so a field listing never breaks on minor
// formatting. The strict TRUE/FALSE gate lives in ValidateConfig.
func ParseMultipleFlag(value string) bool {
	token := strings.ToUpper(strings.TrimSpace(value))

	switch token {
	case "TRUE", "YES", "Y", "1":
		return true
	case "FALSE", "NO", "N", "0", "":
		return false
	}

	// Numeric cells coerce by truthiness.
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return n != 0
	}

	return false
}
