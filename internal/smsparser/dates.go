package smsparser

import (
	"strings"
	"time"
	"unicode"
)

// Bank SMS date shapes, dispatched structurally by separator and length
// rather than by trying every layout against every string. Each shape lists
// a zero-padded layout first and a lenient variant for the odd message that
// drops the padding.
var (
	layoutsSlashDMY    = []string{"02/01/06", "2/1/06"}    // 29/06/25
	layoutsDashDMonY   = []string{"02-Jan-06", "2-Jan-06"} // 01-JUL-25
	layoutsISOWithTime = []string{"2006-01-02:15:04:05"}   // 2025-07-01:10:22:33
	layoutsDashDMY     = []string{"02-01-06", "2-1-06"}    // 01-07-25
)

const layoutClock = "15:04:05"

// parseOccurredAt resolves the captured date (and optional separate time)
// into the transaction timestamp. Missing or unparseable dates fall back to
// the receive time: a transaction with an approximate timestamp beats a
// rejected message.
func parseOccurredAt(dateStr, timeStr string, now time.Time) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return now
	}

	t, ok := parseDate(dateStr)
	if !ok {
		return now
	}

	if timeStr != "" {
		if clock, err := time.Parse(layoutClock, strings.TrimSpace(timeStr)); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, t.Location())
		}
	}
	return t
}

func parseDate(s string) (time.Time, bool) {
	var layouts []string
	switch {
	case strings.Contains(s, "/"):
		layouts = layoutsSlashDMY
	case strings.Count(s, ":") == 3:
		layouts = layoutsISOWithTime
	case hasAlphaMonth(s):
		layouts = layoutsDashDMonY
	case strings.Contains(s, "-"):
		layouts = layoutsDashDMY
	default:
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// hasAlphaMonth reports whether a dash-separated date spells its month, as in
// "01-JUL-25".
func hasAlphaMonth(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
