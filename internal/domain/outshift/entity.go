package outshift

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityTypeSession    ActivityType = "session"
	ActivityTypeTicketWork ActivityType = "ticket_work"
	ActivityTypeCombined   ActivityType = "combined"
)

type ShiftClassification string

const (
	ClassificationInShift  ShiftClassification = "in_shift"
	ClassificationOutShift ShiftClassification = "out_shift"
)

// Session is one web session of an agent, from login to its last heartbeat.
type Session struct {
	ID            int64
	CreatedAt     time.Time
	LastHeartbeat time.Time
}

// TicketTouch is a point event on a ticket: a chat message sent by the agent
// or an assignment of the ticket to the agent.
type TicketTouch struct {
	At       time.Time
	TicketID uuid.UUID
}

// ActivitySegment is a contiguous stretch of activity before classification.
// Start is always before End.
type ActivitySegment struct {
	Start        time.Time
	End          time.Time
	ActivityType ActivityType
	SessionID    *int64
	TicketIDs    []uuid.UUID
}

// Duration returns End - Start.
func (s ActivitySegment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// ClassifiedSegment is an activity segment lying wholly in or wholly out of
// shift.
type ClassifiedSegment struct {
	SegmentStart    time.Time           `json:"segment_start"`
	SegmentEnd      time.Time           `json:"segment_end"`
	DurationMinutes float64             `json:"duration_minutes"`
	ActivityType    ActivityType        `json:"activity_type"`
	Classification  ShiftClassification `json:"classification"`
	SessionID       *int64              `json:"session_id"`
	TicketIDs       []uuid.UUID         `json:"ticket_ids"`
}
