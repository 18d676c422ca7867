package businessunit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BusinessUnit is an organizational grouping with its own weekly
// working-hours calendar. WorkingHours holds the stored JSON document as is;
// see package shift for its format.
type BusinessUnit struct {
	ID           int
	Name         string
	Description  *string
	WorkingHours json.RawMessage
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UpdatedBy    *uuid.UUID
}

// HasWorkingHours reports whether a non-empty document is stored.
func (b BusinessUnit) HasWorkingHours() bool {
	switch string(b.WorkingHours) {
	case "", "null", "{}":
		return false
	}
	return true
}

// WorkingHoursChange is the audit trail entry written when a unit's working
// hours are replaced.
type WorkingHoursChange struct {
	BusinessUnitID int
	ChangedBy      *uuid.UUID
	OldValue       json.RawMessage
	NewValue       json.RawMessage
}
