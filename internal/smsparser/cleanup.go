package smsparser

import (
	"regexp"
	"strings"
)

var (
	achPayeePattern      = regexp.MustCompile(`(?i)ach\s+d\s*-\s*(.*)`)
	trailingNamePattern  = regexp.MustCompile(`([A-Za-z]+)[\s-]*\d+\s*$`)
	lastAlphaRunPattern  = regexp.MustCompile(`([A-Za-z]{2,})[^A-Za-z]*$`)
	maskedAccountPattern = regexp.MustCompile(`(?i)[x*]+\s*(\d{3,6})`)
	repeatedDotsPattern  = regexp.MustCompile(`\.{2,}`)
)

// cleanPayee normalizes a raw payee capture into a display merchant name.
// Structured narration formats (IMPS, ACH, account transfers) are unpacked
// first; text matching none of them passes through with only whitespace and
// punctuation normalization. The result may still be imperfect for novel
// narration shapes, which is acceptable: the goal is a usable label, not a
// canonical identity.
func cleanPayee(raw string) string {
	s := collapseWhitespace(raw)
	if s == "" {
		return ""
	}

	switch {
	case isIMPSNarration(s):
		s = impsPayee(s)
	case isACHNarration(s):
		s = achPayee(s)
	case isAccountTransfer(s):
		s = accountTransferPayee(s)
	}

	s = repeatedDotsPattern.ReplaceAllString(s, ".")
	s = strings.Trim(s, " -.")
	return s
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isIMPSNarration(s string) bool {
	return strings.HasPrefix(strings.ToUpper(s), "IMPS")
}

// impsPayee unpacks "IMPS-<ref>-<name>-<bank>-..." narrations: the name is
// the third dash-delimited field. Shorter narrations fall back to the raw
// text.
func impsPayee(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) >= 3 {
		if name := strings.TrimSpace(parts[2]); name != "" {
			return name
		}
	}
	return s
}

func isACHNarration(s string) bool {
	return achPayeePattern.MatchString(s)
}

// achPayee unpacks "ACH D- <originator>-<mandate id>" narrations: the
// originator is the trailing alphabetic token before the numeric suffix.
// When the suffix is absent the last alphabetic run is the best available
// label.
func achPayee(s string) string {
	rest := achPayeePattern.FindStringSubmatch(s)[1]
	if m := trailingNamePattern.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	if m := lastAlphaRunPattern.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	return s
}

func isAccountTransfer(s string) bool {
	return strings.Contains(strings.ToLower(s), "a/c") && maskedAccountPattern.MatchString(s)
}

// accountTransferPayee renders transfers to a masked account as a stable
// label so repeated transfers to the same account group together.
func accountTransferPayee(s string) string {
	digits := maskedAccountPattern.FindStringSubmatch(s)[1]
	return "Account Transfer - x" + digits
}
