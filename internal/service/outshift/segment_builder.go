package outshift

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
)

// DefaultTicketBucket is the width given to a ticket touch.
const DefaultTicketBucket = time.Minute

// BuildSegments turns one agent's sessions and ticket touches into a sorted
// list of non-overlapping activity segments inside window. Sessions are
// clipped to the window; touches are grouped into buckets of the given width
// (truncated, then clipped). Overlapping or adjacent segments are merged.
// Times are returned in the window's location.
func BuildSegments(sessions []outshift.Session, touches []outshift.TicketTouch, window outshift.Window, bucket time.Duration) []outshift.ActivitySegment {
	if bucket <= 0 {
		bucket = DefaultTicketBucket
	}
	loc := window.Start.Location()

	raw := make([]outshift.ActivitySegment, 0, len(sessions)+len(touches))
	for _, s := range sessions {
		start, end, ok := window.Clamp(s.CreatedAt, s.LastHeartbeat)
		if !ok {
			continue
		}
		id := s.ID
		raw = append(raw, outshift.ActivitySegment{
			Start:        start.In(loc),
			End:          end.In(loc),
			ActivityType: outshift.ActivityTypeSession,
			SessionID:    &id,
		})
	}
	raw = append(raw, bucketTouches(touches, window, bucket)...)

	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Start.Before(raw[j].Start)
	})

	return mergeSegments(raw)
}

func bucketTouches(touches []outshift.TicketTouch, window outshift.Window, bucket time.Duration) []outshift.ActivitySegment {
	loc := window.Start.Location()

	type group struct {
		start, end time.Time
		tickets    map[uuid.UUID]struct{}
	}
	groups := make(map[int64]*group)
	var order []int64

	for _, t := range touches {
		if t.At.Before(window.Start) || !t.At.Before(window.End) {
			continue
		}
		bucketStart := t.At.Truncate(bucket)
		start, end, ok := window.Clamp(bucketStart, bucketStart.Add(bucket))
		if !ok {
			continue
		}

		key := bucketStart.UnixNano()
		g, exists := groups[key]
		if !exists {
			g = &group{start: start.In(loc), end: end.In(loc), tickets: make(map[uuid.UUID]struct{})}
			groups[key] = g
			order = append(order, key)
		}
		g.tickets[t.TicketID] = struct{}{}
	}

	segments := make([]outshift.ActivitySegment, 0, len(order))
	for _, key := range order {
		g := groups[key]
		segments = append(segments, outshift.ActivitySegment{
			Start:        g.start,
			End:          g.end,
			ActivityType: outshift.ActivityTypeTicketWork,
			TicketIDs:    sortedTickets(g.tickets),
		})
	}
	return segments
}

// mergeSegments expects segments sorted by start.
func mergeSegments(sorted []outshift.ActivitySegment) []outshift.ActivitySegment {
	if len(sorted) == 0 {
		return nil
	}

	var merged []outshift.ActivitySegment
	current := sorted[0]
	tickets := ticketSet(current.TicketIDs)

	flush := func() {
		current.TicketIDs = sortedTickets(tickets)
		merged = append(merged, current)
	}

	for _, next := range sorted[1:] {
		if next.Start.After(current.End) {
			flush()
			current = next
			tickets = ticketSet(next.TicketIDs)
			continue
		}

		if next.End.After(current.End) {
			current.End = next.End
		}
		for _, id := range next.TicketIDs {
			tickets[id] = struct{}{}
		}
		if current.SessionID == nil {
			current.SessionID = next.SessionID
		}
		if next.ActivityType != current.ActivityType {
			current.ActivityType = outshift.ActivityTypeCombined
		}
	}
	flush()

	return merged
}

func ticketSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// sortedTickets returns the set as a byte-ordered slice, never nil.
func sortedTickets(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
