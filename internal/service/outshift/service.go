package outshift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/businessunit"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/metrics"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/shift"
	"github.com/servicedesk/helpdesk-backend-go/internal/repository/postgresql"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// Location is the time zone working hours are written in.
	Location     *time.Location
	TicketBucket time.Duration
	Workers      int
	DefaultDays  int
}

type OutshiftServiceImpl struct {
	activityRepo     outshift.ActivityRepository
	businessUnitRepo businessunit.BusinessUnitRepository
	transactor       postgresql.Transactor
	cfg              Config
	now              func() time.Time
}

func NewOutshiftService(
	activityRepo outshift.ActivityRepository,
	businessUnitRepo businessunit.BusinessUnitRepository,
	transactor postgresql.Transactor,
	cfg Config,
) outshift.OutshiftService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TicketBucket <= 0 {
		cfg.TicketBucket = DefaultTicketBucket
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 30
	}
	return &OutshiftServiceImpl{
		activityRepo:     activityRepo,
		businessUnitRepo: businessUnitRepo,
		transactor:       transactor,
		cfg:              cfg,
		now:              time.Now,
	}
}

// reportScope is what one report request works on.
type reportScope struct {
	startDate time.Time
	endDate   time.Time
	window    outshift.Window
	units     map[int]businessunit.BusinessUnit
	schedules map[int]*shift.Schedule
}

func (s *OutshiftServiceImpl) resolveScope(filter outshift.ReportFilter) reportScope {
	startDate, endDate := filter.ResolveDateRange(s.now().In(s.cfg.Location), s.cfg.DefaultDays)
	return reportScope{
		startDate: startDate,
		endDate:   endDate,
		window:    outshift.NewWindow(startDate, endDate),
	}
}

// GetAgentReport implements outshift.OutshiftService.
func (s *OutshiftServiceImpl) GetAgentReport(ctx context.Context, agentID uuid.UUID, filter outshift.ReportFilter) (outshift.AgentReport, error) {
	timer := time.Now()
	if err := filter.Validate(); err != nil {
		return outshift.AgentReport{}, err
	}
	scope := s.resolveScope(filter)

	var report outshift.AgentReport
	err := s.transactor.WithinSnapshot(ctx, func(ctx context.Context) error {
		agent, err := s.activityRepo.GetAgent(ctx, agentID)
		if err != nil {
			return err
		}

		unitIDs := agent.ActiveBusinessUnitIDs()
		if len(unitIDs) == 0 {
			report = assembleAgentReport(agent, scope.startDate, scope.endDate, nil)
			return nil
		}

		if err := s.loadUnits(ctx, &scope, unitIDs); err != nil {
			return err
		}

		report, err = s.buildAgentReport(ctx, agent, unitIDs, scope)
		return err
	})
	if err != nil {
		if !errors.Is(err, outshift.ErrAgentNotFound) {
			metrics.ReportErrorsTotal.WithLabelValues("agent").Inc()
		}
		return outshift.AgentReport{}, err
	}

	metrics.ReportDurationSeconds.WithLabelValues("agent").Observe(time.Since(timer).Seconds())
	return report, nil
}

// GetGlobalReport implements outshift.OutshiftService. Agents are computed
// in parallel; each result keeps its slot so ranking ties resolve the same
// way on every run.
func (s *OutshiftServiceImpl) GetGlobalReport(ctx context.Context, filter outshift.ReportFilter) (outshift.GlobalReport, error) {
	timer := time.Now()
	if err := filter.Validate(); err != nil {
		return outshift.GlobalReport{}, err
	}
	scope := s.resolveScope(filter)

	report, err := s.buildGlobalReport(ctx, filter.BusinessUnitIDs, scope)
	if err != nil {
		metrics.ReportErrorsTotal.WithLabelValues("global").Inc()
		return outshift.GlobalReport{}, err
	}

	metrics.ReportDurationSeconds.WithLabelValues("global").Observe(time.Since(timer).Seconds())
	return report, nil
}

func (s *OutshiftServiceImpl) buildGlobalReport(ctx context.Context, unitFilter []int, scope reportScope) (outshift.GlobalReport, error) {
	technicians, err := s.activityRepo.ListTechnicians(ctx)
	if err != nil {
		return outshift.GlobalReport{}, fmt.Errorf("failed to list technicians: %w", err)
	}

	type candidate struct {
		agent   user.User
		unitIDs []int
	}
	var candidates []candidate
	seen := make(map[int]struct{})
	var allUnitIDs []int
	for _, t := range technicians {
		if !t.IsReportableTechnician() {
			continue
		}
		unitIDs := filterUnits(t.ActiveBusinessUnitIDs(), unitFilter)
		if len(unitIDs) == 0 {
			continue
		}
		candidates = append(candidates, candidate{agent: t, unitIDs: unitIDs})
		for _, id := range unitIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				allUnitIDs = append(allUnitIDs, id)
			}
		}
	}

	if err := s.loadUnits(ctx, &scope, allUnitIDs); err != nil {
		return outshift.GlobalReport{}, err
	}

	reports := make([]outshift.AgentReport, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			return s.transactor.WithinSnapshot(gctx, func(ctx context.Context) error {
				report, err := s.buildAgentReport(ctx, c.agent, c.unitIDs, scope)
				if err != nil {
					return fmt.Errorf("agent %s: %w", c.agent.ID, err)
				}
				reports[i] = report
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return outshift.GlobalReport{}, err
	}

	return assembleGlobalReport(scope.startDate, scope.endDate, reports), nil
}

// loadUnits fetches the business units and parses their working hours once
// per report. Problems in a document are logged here, once per unit.
func (s *OutshiftServiceImpl) loadUnits(ctx context.Context, scope *reportScope, ids []int) error {
	units, err := s.businessUnitRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to get business units: %w", err)
	}

	scope.units = units
	scope.schedules = make(map[int]*shift.Schedule, len(units))
	for id, bu := range units {
		schedule, err := shift.Parse(bu.WorkingHours)
		if err != nil {
			slog.Warn("ignoring unreadable working hours",
				"business_unit_id", id,
				"error", err,
			)
			metrics.MalformedWorkingHoursTotal.WithLabelValues("invalid_json").Inc()
			continue
		}
		for _, issue := range schedule.Issues() {
			slog.Warn("malformed working hours entry",
				"business_unit_id", id,
				"day", issue.Day,
				"reason", issue.Reason,
			)
			metrics.MalformedWorkingHoursTotal.WithLabelValues(string(issue.Kind)).Inc()
		}
		scope.schedules[id] = schedule
	}
	return nil
}

// buildAgentReport fetches one agent's activity and classifies it against
// every unit in unitIDs. Units missing from scope are skipped.
func (s *OutshiftServiceImpl) buildAgentReport(ctx context.Context, agent user.User, unitIDs []int, scope reportScope) (outshift.AgentReport, error) {
	// Repository bounds are inclusive; the window end is exclusive and the
	// builder clips to it.
	sessions, err := s.activityRepo.GetAgentSessions(ctx, agent.ID, scope.window.Start, scope.window.End)
	if err != nil {
		return outshift.AgentReport{}, fmt.Errorf("failed to get agent sessions: %w", err)
	}
	touches, err := s.activityRepo.GetAgentTicketActivity(ctx, agent.ID, scope.window.Start, scope.window.End)
	if err != nil {
		return outshift.AgentReport{}, fmt.Errorf("failed to get agent ticket activity: %w", err)
	}

	segments := BuildSegments(sessions, touches, scope.window, s.cfg.TicketBucket)

	units := make([]buTotals, 0, len(unitIDs))
	for _, id := range unitIDs {
		bu, ok := scope.units[id]
		if !ok {
			slog.Debug("business unit assignment points to a missing unit",
				"agent_id", agent.ID,
				"business_unit_id", id,
			)
			continue
		}
		schedule := scope.schedules[id]

		var classified []outshift.ClassifiedSegment
		for _, seg := range segments {
			classified = append(classified, SplitSegment(seg, schedule)...)
		}
		totals := aggregate(bu.ID, bu.Name, schedule != nil, classified)

		metrics.SegmentsProcessedTotal.Add(float64(len(segments)))
		metrics.ClassifiedMinutesTotal.WithLabelValues(string(outshift.ClassificationInShift)).Add(totals.inShift.Minutes())
		metrics.ClassifiedMinutesTotal.WithLabelValues(string(outshift.ClassificationOutShift)).Add(totals.outShift.Minutes())

		units = append(units, totals)
	}

	return assembleAgentReport(agent, scope.startDate, scope.endDate, units), nil
}

// filterUnits keeps the ids present in filter, or all of them when filter is
// empty.
func filterUnits(ids, filter []int) []int {
	if len(filter) == 0 {
		return ids
	}
	allowed := make(map[int]struct{}, len(filter))
	for _, id := range filter {
		allowed[id] = struct{}{}
	}
	var kept []int
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}
