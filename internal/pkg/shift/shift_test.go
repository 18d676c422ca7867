package shift

import (
	"errors"
	"testing"
	"time"

	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func mustParse(t *testing.T, doc string) *Schedule {
	t.Helper()
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestParse_EmptyDocuments(t *testing.T) {
	for _, doc := range []string{"", "  ", "null", "{}"} {
		s, err := Parse([]byte(doc))
		require.NoError(t, err, doc)
		assert.Nil(t, s, doc)
		assert.False(t, IsOutOfShift(s, at(1, 3, 0)), "nil schedule is always in-shift")
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"monday":`))
	assert.True(t, errors.Is(err, ErrInvalidDocument))
}

func TestParse_LegacyAndListFormsAgree(t *testing.T) {
	legacy := mustParse(t, `{"monday": {"from": "09:00", "to": "17:00"}}`)
	list := mustParse(t, `{"monday": [{"from": "09:00", "to": "17:00"}]}`)

	assert.Equal(t, legacy.Day(time.Monday), list.Day(time.Monday))
	assert.Equal(t, []Range{{From: 540, To: 1020}}, list.Day(time.Monday).Ranges)
	assert.Empty(t, legacy.Issues())
}

func TestParse_DaysOff(t *testing.T) {
	s := mustParse(t, `{"monday": [], "tuesday": null, "wednesday": {}}`)

	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday} {
		day := s.Day(wd)
		require.NotNil(t, day, wd.String())
		assert.False(t, day.Malformed)
		assert.Empty(t, day.Ranges)
	}
	assert.Nil(t, s.Day(time.Thursday))
	assert.True(t, IsOutOfShift(s, at(1, 12, 0)))
	assert.True(t, IsOutOfShift(s, at(4, 12, 0)), "absent day is out of shift")
}

func TestParse_SkipsIncompleteRanges(t *testing.T) {
	s := mustParse(t, `{"monday": [{"from": "09:00"}, "x", {"from": "13:00", "to": "15:00"}]}`)

	day := s.Day(time.Monday)
	require.NotNil(t, day)
	assert.False(t, day.Malformed)
	assert.Equal(t, []Range{{From: 780, To: 900}}, day.Ranges)
	assert.Len(t, s.Issues(), 2)
}

func TestParse_MalformedDays(t *testing.T) {
	s := mustParse(t, `{
		"monday": "9-5",
		"tuesday": {"start": "09:00"},
		"wednesday": [{"from": "9am", "to": "17:00"}],
		"friday": [{"from": "25:00", "to": "26:00"}],
		"funday": []
	}`)

	monday := s.Day(time.Monday)
	require.NotNil(t, monday)
	assert.True(t, monday.Malformed)
	assert.True(t, monday.FallbackOut)

	tuesday := s.Day(time.Tuesday)
	require.NotNil(t, tuesday)
	assert.True(t, tuesday.Malformed)
	assert.True(t, tuesday.FallbackOut)

	wednesday := s.Day(time.Wednesday)
	require.NotNil(t, wednesday)
	assert.True(t, wednesday.Malformed)
	assert.False(t, wednesday.FallbackOut, "unreadable times fall back to in-shift")

	assert.True(t, s.Day(time.Friday).Malformed)
	assert.Len(t, s.Issues(), 5)

	assert.True(t, IsOutOfShift(s, at(1, 12, 0)))
	assert.False(t, IsOutOfShift(s, at(3, 3, 0)))
	assert.Equal(t, at(2, 0, 0), NextBoundary(s, at(1, 12, 0)))
	assert.Equal(t, at(4, 0, 0), NextBoundary(s, at(3, 3, 0)))
}

func TestParse_EmptyNonObjectDocuments(t *testing.T) {
	for _, doc := range []string{`[]`, `""`, `false`, `0`} {
		s, err := Parse([]byte(doc))
		require.NoError(t, err, doc)
		assert.Nil(t, s, doc)
		assert.False(t, IsOutOfShift(s, at(1, 10, 0)), doc)
	}
}

func TestParse_NonObjectDocument(t *testing.T) {
	for _, doc := range []string{`["monday"]`, `"9-5"`, `true`, `5`} {
		s := mustParse(t, doc)
		require.NotNil(t, s, doc)
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			assert.True(t, s.Day(wd).Malformed, doc)
		}
		assert.True(t, IsOutOfShift(s, at(1, 10, 0)), doc)
		require.Len(t, s.Issues(), 1, doc)
		assert.Equal(t, IssueNotObject, s.Issues()[0].Kind, doc)
	}
}

func TestParse_WeekdayKeysAreCaseSensitive(t *testing.T) {
	s := mustParse(t, `{"Monday": {"from": "09:00", "to": "17:00"}}`)
	require.NotNil(t, s)
	assert.Nil(t, s.Day(time.Monday))
	assert.True(t, IsOutOfShift(s, at(1, 10, 0)))
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, IssueUnknownDay, s.Issues()[0].Kind)
	assert.Equal(t, "Monday", s.Issues()[0].Day)

	s = mustParse(t, `{"MONDAY": [], "monday": {"from": "09:00", "to": "17:00"}}`)
	require.NotNil(t, s)
	assert.False(t, IsOutOfShift(s, at(1, 10, 0)))
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, "MONDAY", s.Issues()[0].Day)
}

func TestIsOutOfShift_HalfOpenRanges(t *testing.T) {
	s := mustParse(t, `{"monday": [{"from": "09:00", "to": "13:00"}, {"from": "17:00", "to": "21:00"}]}`)

	cases := []struct {
		at   time.Time
		want bool
	}{
		{at(1, 8, 59), true},
		{at(1, 9, 0), false},
		{at(1, 12, 59), false},
		{at(1, 13, 0), true},
		{at(1, 16, 59), true},
		{at(1, 17, 0), false},
		{at(1, 20, 59), false},
		{at(1, 21, 0), true},
		{at(2, 10, 0), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsOutOfShift(s, c.at), c.at.Format(time.RFC3339))
	}
}

func TestIsOutOfShift_WrappingRange(t *testing.T) {
	s := mustParse(t, `{"monday": {"from": "20:00", "to": "02:00"}}`)

	assert.False(t, IsOutOfShift(s, at(1, 1, 0)))
	assert.True(t, IsOutOfShift(s, at(1, 2, 0)))
	assert.True(t, IsOutOfShift(s, at(1, 19, 59)))
	assert.False(t, IsOutOfShift(s, at(1, 23, 0)))
	assert.True(t, IsOutOfShift(s, at(2, 1, 0)), "tuesday has no hours")
}

func TestIsOutOfShift_UsesTimestampLocation(t *testing.T) {
	s := mustParse(t, `{"monday": [{"from": "09:00", "to": "17:00"}]}`)
	cairo := time.FixedZone("EET", 2*60*60)

	// 07:30 UTC is 09:30 in Cairo.
	instant := time.Date(2024, time.January, 1, 7, 30, 0, 0, time.UTC)
	assert.True(t, IsOutOfShift(s, instant))
	assert.False(t, IsOutOfShift(s, instant.In(cairo)))
}

func TestNextBoundary(t *testing.T) {
	s := mustParse(t, `{"monday": [{"from": "09:00", "to": "13:00"}, {"from": "17:00", "to": "21:00"}]}`)

	cases := []struct {
		from time.Time
		want time.Time
	}{
		{at(1, 0, 0), at(1, 9, 0)},
		{at(1, 9, 0), at(1, 13, 0)},
		{at(1, 13, 30), at(1, 17, 0)},
		{at(1, 21, 0), at(2, 0, 0)},
		{at(2, 9, 0), at(3, 0, 0)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NextBoundary(s, c.from), c.from.Format(time.RFC3339))
	}
}

func TestNextBoundary_AgreesWithEvaluator(t *testing.T) {
	s := mustParse(t, `{
		"monday": [{"from": "08:15", "to": "12:00"}, {"from": "13:00", "to": "17:30"}],
		"wednesday": {"from": "22:00", "to": "03:00"},
		"friday": [{"from": "00:00", "to": "23:59"}],
		"saturday": "broken"
	}`)

	cursor := at(1, 0, 0)
	end := at(8, 0, 0)
	for cursor.Before(end) {
		next := NextBoundary(s, cursor)
		require.True(t, next.After(cursor))

		want := IsOutOfShift(s, cursor)
		for probe := cursor; probe.Before(next); probe = probe.Add(7 * time.Minute) {
			require.Equal(t, want, IsOutOfShift(s, probe), "between %s and %s", cursor, next)
		}
		require.Equal(t, want, IsOutOfShift(s, next.Add(-time.Second)))
		cursor = next
	}
}

func TestNormalized(t *testing.T) {
	s := mustParse(t, `{"monday": {"from": "9:00", "to": "17:00"}, "sunday": [], "saturday": 5}`)

	assert.Equal(t, map[string][]ClockRange{
		"monday":   {{From: "09:00", To: "17:00"}},
		"saturday": nil,
		"sunday":   {},
	}, s.Normalized())
}

func TestValidate(t *testing.T) {
	valid := []string{
		``,
		`null`,
		`{"monday": {"from": "09:00", "to": "17:00"}}`,
		`{"monday": [{"from": "09:00", "to": "13:00"}, {"from": "13:00", "to": "17:00"}], "sunday": null, "saturday": []}`,
	}
	for _, doc := range valid {
		assert.NoError(t, Validate([]byte(doc)), doc)
	}

	invalid := []struct {
		doc   string
		field string
	}{
		{`[]`, "working_hours"},
		{`{"funday": []}`, "working_hours.funday"},
		{`{"monday": "9-5"}`, "working_hours.monday"},
		{`{"monday": [{"from": "09:00"}]}`, "working_hours.monday[0]"},
		{`{"monday": [{"from": "9am", "to": "17:00"}]}`, "working_hours.monday[0].from"},
		{`{"monday": [{"from": "17:00", "to": "09:00"}]}`, "working_hours.monday[0]"},
		{`{"monday": [{"from": "09:00", "to": "14:00"}, {"from": "13:00", "to": "17:00"}]}`, "working_hours.monday"},
	}
	for _, c := range invalid {
		err := Validate([]byte(c.doc))
		var errs validator.ValidationErrors
		require.True(t, errors.As(err, &errs), c.doc)
		assert.Contains(t, errs.ToMap(), c.field, c.doc)
	}
}
