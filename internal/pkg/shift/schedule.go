// Package shift normalizes business-unit working hours and answers
// in-shift/out-of-shift questions against them.
//
// A working-hours document maps lowercase English weekday names to either a
// list of {"from": "HH:MM", "to": "HH:MM"} ranges or, in legacy data, a single
// range object. The document is parsed once into a Schedule; every later
// question is answered from the normalized form.
package shift

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDocument = errors.New("working hours document is not valid JSON")

// Weekdays lists the accepted day keys in calendar order starting on Monday.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayByName = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Range is a clock range in minutes since local midnight. From > To wraps
// past midnight within the same weekday.
type Range struct {
	From int
	To   int
}

func (r Range) contains(minute int) bool {
	switch {
	case r.From < r.To:
		return minute >= r.From && minute < r.To
	case r.From > r.To:
		return minute >= r.From || minute < r.To
	default:
		return false
	}
}

// Day is the normalized schedule of one weekday.
type Day struct {
	Ranges []Range

	// Malformed days have no usable ranges; every instant of the day gets
	// FallbackOut as its classification and midnight is the only boundary.
	Malformed   bool
	FallbackOut bool
}

// IssueKind classifies an Issue.
type IssueKind string

const (
	IssueNotObject    IssueKind = "not_object"
	IssueUnknownDay   IssueKind = "unknown_day"
	IssueBadShape     IssueKind = "bad_shape"
	IssueSkippedRange IssueKind = "skipped_range"
	IssueBadTime      IssueKind = "bad_time"
)

// Issue describes a problem found while normalizing a document.
type Issue struct {
	Kind   IssueKind
	Day    string
	Reason string
}

func (i Issue) String() string {
	if i.Day == "" {
		return i.Reason
	}
	return i.Day + ": " + i.Reason
}

// Schedule is a parsed working-hours document. A nil *Schedule means the
// business unit has no working hours configured.
type Schedule struct {
	days   [7]*Day
	issues []Issue
}

// Parse normalizes a raw working-hours document. Empty input, JSON null and
// empty values ({}, [], "", false, 0) yield a nil schedule. Shape problems never fail the parse;
// they degrade the affected day and are reported through Issues.
func Parse(raw []byte) (*Schedule, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return FromMap(doc)
}

// FromMap normalizes an already decoded document.
func FromMap(doc any) (*Schedule, error) {
	if isEmptyValue(doc) {
		return nil, nil
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		// Nothing can be read; every day degrades to out-of-shift.
		s := &Schedule{}
		for i := range s.days {
			s.days[i] = &Day{Malformed: true, FallbackOut: true}
		}
		s.issues = append(s.issues, Issue{Kind: IssueNotObject, Reason: fmt.Sprintf("document must be an object, got %T", doc)})
		return s, nil
	}

	s := &Schedule{}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		wd, ok := weekdayByName[key]
		if !ok {
			s.issues = append(s.issues, Issue{Kind: IssueUnknownDay, Day: key, Reason: "unknown weekday, ignored"})
			continue
		}
		day, issues := parseDay(key, obj[key])
		s.days[wd] = day
		s.issues = append(s.issues, issues...)
	}
	return s, nil
}

// isEmptyValue reports whether doc carries no calendar at all.
func isEmptyValue(doc any) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	}
	return false
}

func parseDay(name string, value any) (*Day, []Issue) {
	var entries []any

	switch v := value.(type) {
	case nil:
		return &Day{}, nil
	case []any:
		entries = v
	case map[string]any:
		if len(v) == 0 {
			return &Day{}, nil
		}
		if !hasBounds(v) {
			return &Day{Malformed: true, FallbackOut: true},
				[]Issue{{Kind: IssueBadShape, Day: name, Reason: "object without from/to"}}
		}
		entries = []any{v}
	default:
		return &Day{Malformed: true, FallbackOut: true},
			[]Issue{{Kind: IssueBadShape, Day: name, Reason: fmt.Sprintf("unsupported value of type %T", value)}}
	}

	var issues []Issue
	day := &Day{}
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Kind: IssueSkippedRange, Day: name, Reason: fmt.Sprintf("range %d is not an object, skipped", i)})
			continue
		}
		if !hasBounds(obj) {
			issues = append(issues, Issue{Kind: IssueSkippedRange, Day: name, Reason: fmt.Sprintf("range %d missing from/to, skipped", i)})
			continue
		}
		from, err := parseClock(obj["from"])
		if err == nil {
			var to int
			to, err = parseClock(obj["to"])
			if err == nil {
				day.Ranges = append(day.Ranges, Range{From: from, To: to})
				continue
			}
		}
		// An unreadable time poisons the whole day; it is treated as in-shift.
		issues = append(issues, Issue{Kind: IssueBadTime, Day: name, Reason: fmt.Sprintf("range %d: %v", i, err)})
		return &Day{Malformed: true, FallbackOut: false}, issues
	}
	return day, issues
}

func hasBounds(obj map[string]any) bool {
	_, hasFrom := obj["from"]
	_, hasTo := obj["to"]
	return hasFrom && hasTo
}

// parseClock reads "HH:MM" into minutes since midnight.
func parseClock(v any) (int, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("time %v is not a string", v)
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q is out of range", s)
	}
	return hour*60 + minute, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Day returns the normalized schedule of a weekday, or nil when the weekday
// is absent from the document.
func (s *Schedule) Day(wd time.Weekday) *Day {
	if s == nil {
		return nil
	}
	return s.days[wd]
}

// Issues returns the problems found while parsing, in weekday key order.
func (s *Schedule) Issues() []Issue {
	if s == nil {
		return nil
	}
	return s.issues
}

// ClockRange is the wire form of a Range.
type ClockRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Normalized renders the canonical list-per-day form. Absent days are
// omitted, days off map to an empty list and malformed days to nil.
func (s *Schedule) Normalized() map[string][]ClockRange {
	out := make(map[string][]ClockRange)
	if s == nil {
		return out
	}
	for _, name := range Weekdays {
		day := s.days[weekdayByName[name]]
		if day == nil {
			continue
		}
		if day.Malformed {
			out[name] = nil
			continue
		}
		ranges := make([]ClockRange, 0, len(day.Ranges))
		for _, r := range day.Ranges {
			ranges = append(ranges, ClockRange{From: formatClock(r.From), To: formatClock(r.To)})
		}
		out[name] = ranges
	}
	return out
}
