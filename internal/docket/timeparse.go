package docket

import (
	"regexp"
	"strings"
	"time"
)

var (
	compactTimestamp = regexp.MustCompile(`^\d{14}$`)
	compactDate      = regexp.MustCompile(`^\d{8}$`)
	// PDF-style creation date marker, found embedded anywhere in the text.
	pdfCreationDate = regexp.MustCompile(`D:(\d{14})`)
)

// Layouts tried after the compact numeric forms. RFC3339Nano covers ISO-8601
// with or without fractional seconds and a Z or colon-separated offset; the
// Z0700 variant covers offsets without the colon.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp tries the service's known timestamp shapes in order and
// returns the first that parses. Failure is not an error; callers keep the
// raw text and fall back to it for year matching.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if compactTimestamp.MatchString(s) {
		if t, err := time.Parse("20060102150405", s); err == nil {
			return t, true
		}
	}
	if compactDate.MatchString(s) {
		if t, err := time.Parse("20060102", s); err == nil {
			return t, true
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if m := pdfCreationDate.FindStringSubmatch(s); m != nil {
		if t, err := time.Parse("20060102150405", m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
