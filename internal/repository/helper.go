package repository

import (
	"fmt"
	"time"
)

// dateLayout is how dates are stored in sqlite.
const dateLayout = "2006-01-02"

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(dateLayout, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatDate renders a time for storage, date component only.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
