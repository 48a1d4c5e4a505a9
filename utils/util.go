package utils

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Like fmt.Sprintf, but numbers are printed with grouping separators, i.e. 1234567 becomes "1,234,567".
func HumanizedSprintf(format string, args ...any) string {
	return printer.Sprintf(format, args...)
}

// Formats the time as a short date, i.e. "Mon 6 Jan 2025".
func FormatTime(t time.Time) string {
	return t.Format("Mon 2 Jan 2006")
}

// Formats a Discord timestamp tag that renders relative to the viewer, i.e. "in 2 days".
func RelativeTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Returns singular when n is 1, otherwise plural.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}

	return plural
}
