package models

import "time"

// DateFormat is the wire and display format for calendar dates.
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD form value into an optional date. Values are
// validated before they get here; anything unparsable is treated as absent.
func ParseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return nil
	}
	return &t
}

// FormatDate renders an optional date back into its form value.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateFormat)
}
