package outshift

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/validator"
)

// ========================================
// FILTER
// ========================================

type DatePreset string

const (
	PresetToday       DatePreset = "today"
	PresetYesterday   DatePreset = "yesterday"
	PresetLast7Days   DatePreset = "last_7_days"
	PresetLast30Days  DatePreset = "last_30_days"
	PresetThisWeek    DatePreset = "this_week"
	PresetLastWeek    DatePreset = "last_week"
	PresetThisMonth   DatePreset = "this_month"
	PresetLastMonth   DatePreset = "last_month"
	PresetThisQuarter DatePreset = "this_quarter"
	PresetLastQuarter DatePreset = "last_quarter"
	PresetThisYear    DatePreset = "this_year"
	PresetCustom      DatePreset = "custom"
)

const dateLayout = "2006-01-02"

type ReportFilter struct {
	DatePreset      DatePreset
	StartDate       string
	EndDate         string
	BusinessUnitIDs []int
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != "" {
		if start, startOK = validator.IsValidDate(f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if end, endOK = validator.IsValidDate(f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	for _, id := range f.BusinessUnitIDs {
		if id <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "business_unit_ids",
				Message: "business unit ids must be positive integers",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResolveDateRange turns the filter into an inclusive pair of dates, both at
// midnight in now's location. Without a usable preset or complete custom
// range it falls back to the last defaultDays days. Unknown presets are
// treated as custom.
func (f ReportFilter) ResolveDateRange(now time.Time, defaultDays int) (time.Time, time.Time) {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	// Go weekdays start on Sunday; weeks here start on Monday.
	weekday := (int(today.Weekday()) + 6) % 7
	quarterStart := time.Date(y, time.Month((int(m)-1)/3*3+1), 1, 0, 0, 0, 0, loc)

	switch f.DatePreset {
	case PresetToday:
		return today, today
	case PresetYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return yesterday, yesterday
	case PresetLast7Days:
		return today.AddDate(0, 0, -7), today
	case PresetLast30Days:
		return today.AddDate(0, 0, -30), today
	case PresetThisWeek:
		return today.AddDate(0, 0, -weekday), today
	case PresetLastWeek:
		end := today.AddDate(0, 0, -weekday-1)
		return end.AddDate(0, 0, -6), end
	case PresetThisMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), today
	case PresetLastMonth:
		end := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
		return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc), end
	case PresetThisQuarter:
		return quarterStart, today
	case PresetLastQuarter:
		end := quarterStart.AddDate(0, 0, -1)
		start := time.Date(end.Year(), time.Month((int(end.Month())-1)/3*3+1), 1, 0, 0, 0, 0, loc)
		return start, end
	case PresetThisYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), today
	}

	if f.StartDate != "" && f.EndDate != "" {
		start, errStart := time.ParseInLocation(dateLayout, f.StartDate, loc)
		end, errEnd := time.ParseInLocation(dateLayout, f.EndDate, loc)
		if errStart == nil && errEnd == nil {
			return start, end
		}
	}

	return today.AddDate(0, 0, -defaultDays), today
}

// Window is the half-open interval [Start, End) a report covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow covers startDate 00:00 up to the midnight after endDate.
func NewWindow(startDate, endDate time.Time) Window {
	y, m, d := startDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, startDate.Location())
	y, m, d = endDate.Date()
	end := time.Date(y, m, d+1, 0, 0, 0, 0, endDate.Location())
	return Window{Start: start, End: end}
}

// Clamp restricts [from, to) to the window. ok is false when nothing is left.
func (w Window) Clamp(from, to time.Time) (time.Time, time.Time, bool) {
	if from.Before(w.Start) {
		from = w.Start
	}
	if to.After(w.End) {
		to = w.End
	}
	return from, to, from.Before(to)
}

// ========================================
// AGENT REPORT
// ========================================

type AgentBUMetrics struct {
	BusinessUnitID        int                 `json:"business_unit_id"`
	BusinessUnitName      string              `json:"business_unit_name"`
	HasWorkingHours       bool                `json:"has_working_hours"`
	TotalActivityMinutes  float64             `json:"total_activity_minutes"`
	InShiftMinutes        float64             `json:"in_shift_minutes"`
	OutShiftMinutes       float64             `json:"out_shift_minutes"`
	OutShiftPercentage    float64             `json:"out_shift_percentage"`
	OutShiftSessionsCount int                 `json:"out_shift_sessions_count"`
	OutShiftTicketsCount  int                 `json:"out_shift_tickets_count"`
	ActivitySegments      []ClassifiedSegment `json:"activity_segments"`
}

type AgentReport struct {
	AgentID       uuid.UUID `json:"agent_id"`
	AgentName     string    `json:"agent_name"`
	AgentFullName *string   `json:"agent_full_name"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`

	TotalActivityMinutes    float64 `json:"total_activity_minutes"`
	TotalInShiftMinutes     float64 `json:"total_in_shift_minutes"`
	TotalOutShiftMinutes    float64 `json:"total_out_shift_minutes"`
	TotalOutShiftPercentage float64 `json:"total_out_shift_percentage"`
	OutShiftSessionsCount   int     `json:"out_shift_sessions_count"`
	OutShiftTicketsCount    int     `json:"out_shift_tickets_count"`

	BusinessUnitMetrics []AgentBUMetrics `json:"business_unit_metrics"`
	HasActivity         bool             `json:"has_activity"`
	HasBUAssignments    bool             `json:"has_bu_assignments"`
}

// ========================================
// GLOBAL REPORT
// ========================================

type AgentSummary struct {
	Rank                    int       `json:"rank"`
	AgentID                 uuid.UUID `json:"agent_id"`
	AgentName               string    `json:"agent_name"`
	AgentFullName           *string   `json:"agent_full_name"`
	BusinessUnitCount       int       `json:"business_unit_count"`
	TotalActivityMinutes    float64   `json:"total_activity_minutes"`
	TotalInShiftMinutes     float64   `json:"total_in_shift_minutes"`
	TotalOutShiftMinutes    float64   `json:"total_out_shift_minutes"`
	TotalOutShiftPercentage float64   `json:"total_out_shift_percentage"`
	OutShiftSessionsCount   int       `json:"out_shift_sessions_count"`
	OutShiftTicketsCount    int       `json:"out_shift_tickets_count"`
}

type GlobalReport struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`

	TotalAgents        int `json:"total_agents"`
	AgentsWithActivity int `json:"agents_with_activity"`
	AgentsWithOutshift int `json:"agents_with_outshift"`

	TotalActivityMinutes       float64 `json:"total_activity_minutes"`
	TotalInShiftMinutes        float64 `json:"total_in_shift_minutes"`
	TotalOutShiftMinutes       float64 `json:"total_out_shift_minutes"`
	OverallOutShiftPercentage  float64 `json:"overall_out_shift_percentage"`
	AvgOutShiftPercentage      float64 `json:"avg_out_shift_percentage"`
	TotalOutShiftSessionsCount int     `json:"total_out_shift_sessions_count"`
	TotalOutShiftTicketsCount  int     `json:"total_out_shift_tickets_count"`

	AgentRankings []AgentSummary `json:"agent_rankings"`
	HasData       bool           `json:"has_data"`
}
