package docket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recWithTime(id string, t time.Time) Record {
	return Record{ID: id, InsertionTime: &t}
}

func TestMatchesYearByParsedTimestamp(t *testing.T) {
	rec := recWithTime("1", time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, MatchesYear(rec, []string{"2021"}))
	assert.False(t, MatchesYear(rec, []string{"2019"}))
	// OR across configured years.
	assert.True(t, MatchesYear(rec, []string{"2019", "2021"}))
}

func TestMatchesYearByRawTimestampText(t *testing.T) {
	rec := Record{ID: "9", InsertionTimeRaw: "2021-05-01"}
	assert.True(t, MatchesYear(rec, []string{"2021"}))
	assert.False(t, MatchesYear(rec, []string{"2020"}))
}

func TestMatchesYearByIdPrefix(t *testing.T) {
	rec := Record{ID: "2021998877"}
	assert.True(t, MatchesYear(rec, []string{"2021"}))
	assert.False(t, MatchesYear(rec, []string{"2022"}))
}

func TestMatchesYearStripsNonDigitPrefix(t *testing.T) {
	rec := Record{ID: "x", InsertionTimeRaw: "em 2020-01-02"}
	assert.True(t, MatchesYear(rec, []string{"2020"}))
}

func TestMatchesYearEmptyFilterMatchesAll(t *testing.T) {
	assert.True(t, MatchesYear(Record{ID: "1"}, nil))
}

func TestFilterByCategories(t *testing.T) {
	records := []Record{
		{ID: "1", CategoryCode: "9500"},
		{ID: "2", CategoryCode: "8"},
		{ID: "3"}, // no category reported
	}

	selected := FilterByCategories(records, map[string]bool{"9500": true})
	assert.Len(t, selected, 1)
	assert.Equal(t, "1", selected[0].ID)

	// Empty set is "no categories chosen": nothing passes.
	assert.Empty(t, FilterByCategories(records, map[string]bool{}))
}

func TestFilterByYears(t *testing.T) {
	records := []Record{
		recWithTime("a", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		recWithTime("b", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		{ID: "2020777"},
	}
	kept := FilterByYears(records, []string{"2020"})
	assert.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].ID)
	assert.Equal(t, "2020777", kept[1].ID)
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Petição", CategoryLabel("9500"))
	assert.Equal(t, "Sentença", CategoryLabel("8"))
	assert.Equal(t, "Documento 424242", CategoryLabel("424242"))
	assert.Equal(t, "Documento documento", CategoryLabel(""))
}
