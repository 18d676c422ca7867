package outshift

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
)

// buTotals carries exact durations and distinct out-shift identifiers next
// to the rounded metrics so that agent totals are summed before rounding.
type buTotals struct {
	metrics     outshift.AgentBUMetrics
	inShift     time.Duration
	outShift    time.Duration
	outSessions map[int64]struct{}
	outTickets  map[uuid.UUID]struct{}
}

// AggregateBU sums classified segments into the metrics of one
// (agent, business unit) pair.
func AggregateBU(businessUnitID int, name string, hasWorkingHours bool, segments []outshift.ClassifiedSegment) outshift.AgentBUMetrics {
	return aggregate(businessUnitID, name, hasWorkingHours, segments).metrics
}

func aggregate(businessUnitID int, name string, hasWorkingHours bool, segments []outshift.ClassifiedSegment) buTotals {
	t := buTotals{
		outSessions: make(map[int64]struct{}),
		outTickets:  make(map[uuid.UUID]struct{}),
	}

	for _, seg := range segments {
		d := seg.SegmentEnd.Sub(seg.SegmentStart)
		if seg.Classification != outshift.ClassificationOutShift {
			t.inShift += d
			continue
		}
		t.outShift += d
		if seg.SessionID != nil {
			t.outSessions[*seg.SessionID] = struct{}{}
		}
		for _, id := range seg.TicketIDs {
			t.outTickets[id] = struct{}{}
		}
	}

	if segments == nil {
		segments = []outshift.ClassifiedSegment{}
	}
	total := t.inShift + t.outShift
	t.metrics = outshift.AgentBUMetrics{
		BusinessUnitID:        businessUnitID,
		BusinessUnitName:      name,
		HasWorkingHours:       hasWorkingHours,
		TotalActivityMinutes:  round2(total.Minutes()),
		InShiftMinutes:        round2(t.inShift.Minutes()),
		OutShiftMinutes:       round2(t.outShift.Minutes()),
		OutShiftPercentage:    percentage(t.outShift, total),
		OutShiftSessionsCount: len(t.outSessions),
		OutShiftTicketsCount:  len(t.outTickets),
		ActivitySegments:      segments,
	}
	return t
}

func percentage(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}
