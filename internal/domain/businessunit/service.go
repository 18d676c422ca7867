package businessunit

import "context"

type BusinessUnitService interface {
	GetWorkingHours(ctx context.Context, id int) (WorkingHoursResponse, error)
	UpdateWorkingHours(ctx context.Context, req UpdateWorkingHoursRequest) (WorkingHoursResponse, error)
}
