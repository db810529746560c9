// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/claim-settlement/pkg/constants"
)

const (
	// DateTimeLayout is the layout of calculation dates on input and output.
	DateTimeLayout = constants.CalculationDateLayout

	// DateLayout is the layout of a bare calendar date, taken as midnight UTC.
	DateLayout = "2006-01-02"
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseCalculationDate parses a fixed calculation date given either as a full
// timestamp or as a bare date. The result is always in UTC.
func ParseCalculationDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid calculation date %q, expected %s or %s", value, DateTimeLayout, DateLayout)
}
