package docket

import (
	"regexp"
	"strconv"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// startsWithYear reports whether text begins with the 4-digit year, either
// directly or once non-digit characters are stripped.
func startsWithYear(text, year string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, year) {
		return true
	}
	return strings.HasPrefix(nonDigits.ReplaceAllString(text, ""), year)
}

// MatchesYear reports whether a record matches any of the filter years:
// by parsed timestamp year, or by the raw timestamp text or the id
// beginning with the year string. An empty year list matches everything.
func MatchesYear(rec Record, years []string) bool {
	if len(years) == 0 {
		return true
	}
	if rec.InsertionTime != nil {
		recYear := rec.InsertionTime.Year()
		for _, y := range years {
			if v, err := strconv.Atoi(y); err == nil && v == recYear {
				return true
			}
		}
	}
	for _, y := range years {
		if startsWithYear(rec.InsertionTimeRaw, y) || startsWithYear(rec.ID, y) {
			return true
		}
	}
	return false
}

// FilterByYears keeps records matching any configured year.
func FilterByYears(records []Record, years []string) []Record {
	if len(years) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if MatchesYear(rec, years) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByCategories keeps records whose category code is in the selected
// set. An empty set is the explicit "no categories chosen" state: nothing
// passes. Records without a category code never match.
func FilterByCategories(records []Record, selected map[string]bool) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.CategoryCode != "" && selected[rec.CategoryCode] {
			out = append(out, rec)
		}
	}
	return out
}
