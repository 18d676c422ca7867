package outshift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
)

// ActivityRepository reads the agents and activity streams the reports are
// built from. Time bounds are inclusive.
type ActivityRepository interface {
	// GetAgent returns the user with its non-deleted business unit
	// assignments, or ErrAgentNotFound.
	GetAgent(ctx context.Context, agentID uuid.UUID) (user.User, error)

	// ListTechnicians returns active technicians with their non-deleted
	// assignments, ordered by username.
	ListTechnicians(ctx context.Context) ([]user.User, error)

	GetAgentSessions(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]Session, error)
	GetAgentTicketActivity(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]TicketTouch, error)
}
