package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/database"
)

type businessUnitRepositoryImpl struct {
	db *database.DB
}

func NewBusinessUnitRepository(db *database.DB) businessunit.BusinessUnitRepository {
	return &businessUnitRepositoryImpl{db: db}
}

const businessUnitColumns = `id, name, description, working_hours, is_active, created_at, updated_at, updated_by`

func scanBusinessUnit(row pgx.Row) (businessunit.BusinessUnit, error) {
	var bu businessunit.BusinessUnit
	var workingHours []byte
	err := row.Scan(
		&bu.ID,
		&bu.Name,
		&bu.Description,
		&workingHours,
		&bu.IsActive,
		&bu.CreatedAt,
		&bu.UpdatedAt,
		&bu.UpdatedBy,
	)
	if err != nil {
		return businessunit.BusinessUnit{}, err
	}
	bu.WorkingHours = json.RawMessage(workingHours)
	return bu, nil
}

// GetByID implements businessunit.BusinessUnitRepository.
func (r *businessUnitRepositoryImpl) GetByID(ctx context.Context, id int) (businessunit.BusinessUnit, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + businessUnitColumns + ` FROM business_units WHERE id = $1 AND is_deleted = FALSE`

	bu, err := scanBusinessUnit(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return businessunit.BusinessUnit{}, businessunit.ErrBusinessUnitNotFound
		}
		return businessunit.BusinessUnit{}, fmt.Errorf("failed to get business unit: %w", err)
	}
	return bu, nil
}

// GetByIDForUpdate implements businessunit.BusinessUnitRepository.
func (r *businessUnitRepositoryImpl) GetByIDForUpdate(ctx context.Context, id int) (businessunit.BusinessUnit, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + businessUnitColumns + ` FROM business_units WHERE id = $1 AND is_deleted = FALSE FOR UPDATE`

	bu, err := scanBusinessUnit(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return businessunit.BusinessUnit{}, businessunit.ErrBusinessUnitNotFound
		}
		return businessunit.BusinessUnit{}, fmt.Errorf("failed to lock business unit: %w", err)
	}
	return bu, nil
}

// GetByIDs implements businessunit.BusinessUnitRepository.
func (r *businessUnitRepositoryImpl) GetByIDs(ctx context.Context, ids []int) (map[int]businessunit.BusinessUnit, error) {
	result := make(map[int]businessunit.BusinessUnit, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + businessUnitColumns + ` FROM business_units WHERE id = ANY($1) AND is_deleted = FALSE`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query business units: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		bu, err := scanBusinessUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business unit: %w", err)
		}
		result[bu.ID] = bu
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// UpdateWorkingHours implements businessunit.BusinessUnitRepository. A JSON
// null document clears the working hours.
func (r *businessUnitRepositoryImpl) UpdateWorkingHours(ctx context.Context, id int, workingHours json.RawMessage, updatedBy *uuid.UUID) (businessunit.BusinessUnit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE business_units
		SET working_hours = CASE WHEN $2::jsonb = 'null'::jsonb THEN NULL ELSE $2::jsonb END,
			updated_by = $3,
			updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + businessUnitColumns

	bu, err := scanBusinessUnit(q.QueryRow(ctx, query, id, jsonOrNull(workingHours), updatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return businessunit.BusinessUnit{}, businessunit.ErrBusinessUnitNotFound
		}
		return businessunit.BusinessUnit{}, fmt.Errorf("failed to update working hours: %w", err)
	}
	return bu, nil
}

// RecordWorkingHoursChange implements businessunit.BusinessUnitRepository.
func (r *businessUnitRepositoryImpl) RecordWorkingHoursChange(ctx context.Context, change businessunit.WorkingHoursChange) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, old_values, new_values, changes_summary)
		VALUES ($1, 'update_working_hours', 'business_unit', $2, $3::jsonb, $4::jsonb, $5)
	`

	summary := fmt.Sprintf("working hours of business unit %d replaced", change.BusinessUnitID)
	_, err := q.Exec(ctx, query,
		change.ChangedBy,
		strconv.Itoa(change.BusinessUnitID),
		jsonOrNull(change.OldValue),
		jsonOrNull(change.NewValue),
		summary,
	)
	if err != nil {
		return fmt.Errorf("failed to record working hours change: %w", err)
	}
	return nil
}

func jsonOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
