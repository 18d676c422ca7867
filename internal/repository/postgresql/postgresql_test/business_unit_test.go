package postgresql_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessUnitRepository_Get(t *testing.T) {
	setup := setupTestDatabase(t)
	repo := postgresql.NewBusinessUnitRepository(setup.DB)
	ctx := context.Background()

	hours := `{"monday": {"from": "09:00", "to": "17:00"}}`
	support := insertBusinessUnit(t, setup, "Support", &hours)
	billing := insertBusinessUnit(t, setup, "Billing", nil)

	bu, err := repo.GetByID(ctx, support)
	require.NoError(t, err)
	assert.Equal(t, "Support", bu.Name)
	assert.True(t, bu.HasWorkingHours())
	assert.JSONEq(t, hours, string(bu.WorkingHours))

	bu, err = repo.GetByID(ctx, billing)
	require.NoError(t, err)
	assert.False(t, bu.HasWorkingHours())

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, businessunit.ErrBusinessUnitNotFound)

	units, err := repo.GetByIDs(ctx, []int{support, billing, 9999})
	require.NoError(t, err)
	assert.Len(t, units, 2)
	assert.Equal(t, "Billing", units[billing].Name)

	units, err = repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestBusinessUnitRepository_UpdateWorkingHours(t *testing.T) {
	setup := setupTestDatabase(t)
	repo := postgresql.NewBusinessUnitRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)
	ctx := context.Background()

	support := insertBusinessUnit(t, setup, "Support", nil)
	adminID := uuid.New()
	doc := json.RawMessage(`{"friday": [{"from": "10:00", "to": "14:00"}]}`)

	err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := repo.GetByIDForUpdate(ctx, support)
		if err != nil {
			return err
		}
		if _, err := repo.UpdateWorkingHours(ctx, support, doc, &adminID); err != nil {
			return err
		}
		return repo.RecordWorkingHoursChange(ctx, businessunit.WorkingHoursChange{
			BusinessUnitID: support,
			ChangedBy:      &adminID,
			OldValue:       current.WorkingHours,
			NewValue:       doc,
		})
	})
	require.NoError(t, err)

	bu, err := repo.GetByID(ctx, support)
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(bu.WorkingHours))
	require.NotNil(t, bu.UpdatedBy)
	assert.Equal(t, adminID, *bu.UpdatedBy)

	var action, resourceID string
	var newValues []byte
	err = setup.DB.QueryRow(ctx,
		`SELECT action, resource_id, new_values FROM audit_logs WHERE resource_type = 'business_unit'`,
	).Scan(&action, &resourceID, &newValues)
	require.NoError(t, err)
	assert.Equal(t, "update_working_hours", action)
	assert.JSONEq(t, string(doc), string(newValues))

	// null clears the column
	bu, err = repo.UpdateWorkingHours(ctx, support, json.RawMessage("null"), &adminID)
	require.NoError(t, err)
	assert.False(t, bu.HasWorkingHours())
	assert.Empty(t, bu.WorkingHours)

	_, err = repo.UpdateWorkingHours(ctx, 9999, doc, nil)
	assert.ErrorIs(t, err, businessunit.ErrBusinessUnitNotFound)
}

func TestBusinessUnitRepository_RollbackOnError(t *testing.T) {
	setup := setupTestDatabase(t)
	repo := postgresql.NewBusinessUnitRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)
	ctx := context.Background()

	support := insertBusinessUnit(t, setup, "Support", nil)
	boom := errors.New("boom")

	err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.UpdateWorkingHours(ctx, support, json.RawMessage(`{"monday": []}`), nil); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bu, err := repo.GetByID(ctx, support)
	require.NoError(t, err)
	assert.False(t, bu.HasWorkingHours())
}
