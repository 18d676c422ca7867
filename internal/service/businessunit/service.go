package businessunit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/shift"
	"github.com/servicedesk/helpdesk-backend-go/internal/repository/postgresql"
)

type BusinessUnitServiceImpl struct {
	businessUnitRepo businessunit.BusinessUnitRepository
	transactor       postgresql.Transactor
}

func NewBusinessUnitService(businessUnitRepo businessunit.BusinessUnitRepository, transactor postgresql.Transactor) businessunit.BusinessUnitService {
	return &BusinessUnitServiceImpl{
		businessUnitRepo: businessUnitRepo,
		transactor:       transactor,
	}
}

// GetWorkingHours implements businessunit.BusinessUnitService.
func (s *BusinessUnitServiceImpl) GetWorkingHours(ctx context.Context, id int) (businessunit.WorkingHoursResponse, error) {
	if id <= 0 {
		return businessunit.WorkingHoursResponse{}, businessunit.ErrInvalidBusinessUnitID
	}

	bu, err := s.businessUnitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, businessunit.ErrBusinessUnitNotFound) {
			return businessunit.WorkingHoursResponse{}, err
		}
		return businessunit.WorkingHoursResponse{}, fmt.Errorf("failed to get business unit: %w", err)
	}

	return toWorkingHoursResponse(bu), nil
}

// UpdateWorkingHours implements businessunit.BusinessUnitService. The old
// and new documents are written to the audit log in the same transaction.
func (s *BusinessUnitServiceImpl) UpdateWorkingHours(ctx context.Context, req businessunit.UpdateWorkingHoursRequest) (businessunit.WorkingHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return businessunit.WorkingHoursResponse{}, err
	}

	var updated businessunit.BusinessUnit
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.businessUnitRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		updated, err = s.businessUnitRepo.UpdateWorkingHours(ctx, req.ID, req.WorkingHours, req.UpdatedBy)
		if err != nil {
			return err
		}

		return s.businessUnitRepo.RecordWorkingHoursChange(ctx, businessunit.WorkingHoursChange{
			BusinessUnitID: req.ID,
			ChangedBy:      req.UpdatedBy,
			OldValue:       current.WorkingHours,
			NewValue:       req.WorkingHours,
		})
	})
	if err != nil {
		if errors.Is(err, businessunit.ErrBusinessUnitNotFound) {
			return businessunit.WorkingHoursResponse{}, err
		}
		return businessunit.WorkingHoursResponse{}, fmt.Errorf("failed to update working hours: %w", err)
	}

	slog.Info("business unit working hours updated",
		"business_unit_id", updated.ID,
		"has_working_hours", updated.HasWorkingHours(),
	)

	return toWorkingHoursResponse(updated), nil
}

func toWorkingHoursResponse(bu businessunit.BusinessUnit) businessunit.WorkingHoursResponse {
	resp := businessunit.WorkingHoursResponse{
		BusinessUnitID: bu.ID,
		Name:           bu.Name,
		WorkingHours:   bu.WorkingHours,
		Normalized:     map[string][]shift.ClockRange{},
	}
	if len(resp.WorkingHours) == 0 {
		resp.WorkingHours = []byte("null")
	}

	schedule, err := shift.Parse(bu.WorkingHours)
	if err != nil {
		resp.Issues = []string{err.Error()}
		return resp
	}
	resp.HasWorkingHours = schedule != nil
	resp.Normalized = schedule.Normalized()
	for _, issue := range schedule.Issues() {
		resp.Issues = append(resp.Issues, issue.String())
	}
	return resp
}
