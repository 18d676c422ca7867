package shift

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
)

// Validate checks a document before it is stored. It is stricter than Parse:
// unknown days, unreadable times, inverted ranges and overlapping ranges are
// all rejected. JSON null is accepted and clears the schedule.
func Validate(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return validator.ValidationErrors{{
			Field:   "working_hours",
			Message: "must be an object keyed by weekday",
		}}
	}

	var errs validator.ValidationErrors
	days := make([]string, 0, len(doc))
	for day := range doc {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		field := "working_hours." + day
		if !validator.IsInSlice(day, Weekdays) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "invalid day"})
			continue
		}

		var ranges []any
		switch v := doc[day].(type) {
		case nil:
			continue
		case []any:
			ranges = v
		case map[string]any:
			if !hasBounds(v) {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: "must be an array of time ranges or a single time range object",
				})
				continue
			}
			ranges = []any{v}
		default:
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "must be an array of time ranges or a single time range object",
			})
			continue
		}

		parsed, rangeErrs := validateRanges(field, ranges)
		errs = append(errs, rangeErrs...)
		if len(rangeErrs) > 0 {
			continue
		}

		sort.Slice(parsed, func(i, j int) bool { return parsed[i].From < parsed[j].From })
		for i := 0; i+1 < len(parsed); i++ {
			if parsed[i].To > parsed[i+1].From {
				errs = append(errs, validator.ValidationError{Field: field, Message: "overlapping ranges"})
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRanges(field string, ranges []any) ([]Range, validator.ValidationErrors) {
	var errs validator.ValidationErrors
	parsed := make([]Range, 0, len(ranges))

	for i, entry := range ranges {
		rangeField := fmt.Sprintf("%s[%d]", field, i)
		obj, ok := entry.(map[string]any)
		if !ok || !hasBounds(obj) {
			errs = append(errs, validator.ValidationError{Field: rangeField, Message: "must have 'from' and 'to'"})
			continue
		}

		var bounds [2]int
		valid := true
		for k, key := range [2]string{"from", "to"} {
			s, isString := obj[key].(string)
			if !isString || !validator.IsValidClock(s) {
				errs = append(errs, validator.ValidationError{
					Field:   rangeField + "." + key,
					Message: "invalid time format (expected HH:MM)",
				})
				valid = false
				continue
			}
			bounds[k], _ = parseClock(s)
		}
		if !valid {
			continue
		}
		if bounds[0] >= bounds[1] {
			errs = append(errs, validator.ValidationError{Field: rangeField, Message: "'to' time must be after 'from' time"})
			continue
		}
		parsed = append(parsed, Range{From: bounds[0], To: bounds[1]})
	}
	return parsed, errs
}
