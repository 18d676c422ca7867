package outshift

import (
	"math"
	"time"

	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/shift"
)

// SplitSegment cuts seg at every shift boundary so that each piece is wholly
// in or out of shift. Weekday and clock time are read in seg.Start's
// location. A nil schedule means the unit has no working hours: the segment
// comes back whole and in shift.
func SplitSegment(seg outshift.ActivitySegment, schedule *shift.Schedule) []outshift.ClassifiedSegment {
	if !seg.Start.Before(seg.End) {
		return nil
	}
	if schedule == nil {
		return []outshift.ClassifiedSegment{classify(seg, seg.Start, seg.End, outshift.ClassificationInShift)}
	}

	loc := seg.Start.Location()
	end := seg.End.In(loc)

	var pieces []outshift.ClassifiedSegment
	for current := seg.Start; current.Before(end); {
		classification := outshift.ClassificationInShift
		if shift.IsOutOfShift(schedule, current) {
			classification = outshift.ClassificationOutShift
		}

		pieceEnd := shift.NextBoundary(schedule, current)
		if pieceEnd.After(end) {
			pieceEnd = end
		}

		pieces = append(pieces, classify(seg, current, pieceEnd, classification))
		current = pieceEnd
	}
	return pieces
}

func classify(seg outshift.ActivitySegment, start, end time.Time, classification outshift.ShiftClassification) outshift.ClassifiedSegment {
	return outshift.ClassifiedSegment{
		SegmentStart:    start,
		SegmentEnd:      end,
		DurationMinutes: round2(end.Sub(start).Minutes()),
		ActivityType:    seg.ActivityType,
		Classification:  classification,
		SessionID:       seg.SessionID,
		TicketIDs:       seg.TicketIDs,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
