package outshift

import (
	"context"

	"github.com/google/uuid"
)

type OutshiftService interface {
	GetAgentReport(ctx context.Context, agentID uuid.UUID, filter ReportFilter) (AgentReport, error)
	GetGlobalReport(ctx context.Context, filter ReportFilter) (GlobalReport, error)
}
