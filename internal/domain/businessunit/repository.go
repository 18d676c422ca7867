package businessunit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type BusinessUnitRepository interface {
	GetByID(ctx context.Context, id int) (BusinessUnit, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int) (BusinessUnit, error)
	// GetByIDs returns the non-deleted units among ids, keyed by ID.
	GetByIDs(ctx context.Context, ids []int) (map[int]BusinessUnit, error)
	UpdateWorkingHours(ctx context.Context, id int, workingHours json.RawMessage, updatedBy *uuid.UUID) (BusinessUnit, error)
	RecordWorkingHoursChange(ctx context.Context, change WorkingHoursChange) error
}
