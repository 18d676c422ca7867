package postgresql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/database"
)

type outshiftRepositoryImpl struct {
	db *database.DB
}

func NewOutshiftRepository(db *database.DB) outshift.ActivityRepository {
	return &outshiftRepositoryImpl{db: db}
}

// GetAgent implements outshift.ActivityRepository.
func (r *outshiftRepositoryImpl) GetAgent(ctx context.Context, agentID uuid.UUID) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, username, full_name, is_technician, is_active, is_super_admin
		FROM users
		WHERE id = $1 AND is_deleted = FALSE
	`

	var u user.User
	err := q.QueryRow(ctx, query, agentID).Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.IsTechnician,
		&u.IsActive,
		&u.IsSuperAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, outshift.ErrAgentNotFound
		}
		return user.User{}, fmt.Errorf("failed to get agent: %w", err)
	}

	assignments, err := r.getAssignments(ctx, []uuid.UUID{u.ID})
	if err != nil {
		return user.User{}, err
	}
	u.BusinessUnitAssignments = assignments[u.ID]

	return u, nil
}

// ListTechnicians implements outshift.ActivityRepository.
func (r *outshiftRepositoryImpl) ListTechnicians(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, username, full_name, is_technician, is_active, is_super_admin
		FROM users
		WHERE is_technician = TRUE AND is_active = TRUE AND is_deleted = FALSE
		ORDER BY username ASC, id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians: %w", err)
	}
	defer rows.Close()

	var technicians []user.User
	var ids []uuid.UUID
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.FullName,
			&u.IsTechnician,
			&u.IsActive,
			&u.IsSuperAdmin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(ids) == 0 {
		return technicians, nil
	}

	assignments, err := r.getAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range technicians {
		technicians[i].BusinessUnitAssignments = assignments[technicians[i].ID]
	}

	return technicians, nil
}

// getAssignments loads non-deleted business unit assignments keyed by
// technician.
func (r *outshiftRepositoryImpl) getAssignments(ctx context.Context, technicianIDs []uuid.UUID) (map[uuid.UUID][]user.BusinessUnitAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tbu.id, tbu.technician_id, tbu.business_unit_id, tbu.is_deleted
		FROM technician_business_units tbu
		WHERE tbu.technician_id = ANY($1) AND tbu.is_deleted = FALSE
		ORDER BY tbu.technician_id, tbu.id
	`

	rows, err := q.Query(ctx, query, technicianIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query business unit assignments: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]user.BusinessUnitAssignment, len(technicianIDs))
	for rows.Next() {
		var a user.BusinessUnitAssignment
		if err := rows.Scan(&a.ID, &a.TechnicianID, &a.BusinessUnitID, &a.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan business unit assignment: %w", err)
		}
		result[a.TechnicianID] = append(result[a.TechnicianID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// GetAgentSessions implements outshift.ActivityRepository. A session is
// returned when it started in the range, heartbeated in the range, or spans
// the whole range.
func (r *outshiftRepositoryImpl) GetAgentSessions(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]outshift.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, created_at, last_heartbeat
		FROM web_sessions
		WHERE user_id = $1
			AND (
				(created_at >= $2 AND created_at <= $3)
				OR (last_heartbeat >= $2 AND last_heartbeat <= $3)
				OR (created_at <= $2 AND last_heartbeat >= $3)
			)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, agentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []outshift.Session
	for rows.Next() {
		var s outshift.Session
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.LastHeartbeat); err != nil {
			return nil, fmt.Errorf("failed to scan agent session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sessions, nil
}

// GetAgentTicketActivity implements outshift.ActivityRepository. Chat
// messages sent by the agent and ticket assignments to the agent both count
// as touches.
func (r *outshiftRepositoryImpl) GetAgentTicketActivity(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]outshift.TicketTouch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT created_at, request_id
		FROM chat_messages
		WHERE sender_id = $1 AND created_at >= $2 AND created_at <= $3
		UNION ALL
		SELECT created_at, request_id
		FROM request_assignees
		WHERE assignee_id = $1 AND created_at >= $2 AND created_at <= $3
	`

	rows, err := q.Query(ctx, query, agentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket activity: %w", err)
	}
	defer rows.Close()

	var touches []outshift.TicketTouch
	for rows.Next() {
		var t outshift.TicketTouch
		if err := rows.Scan(&t.At, &t.TicketID); err != nil {
			return nil, fmt.Errorf("failed to scan ticket activity: %w", err)
		}
		touches = append(touches, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	sort.SliceStable(touches, func(i, j int) bool {
		return touches[i].At.Before(touches[j].At)
	})

	return touches, nil
}
