package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/metrics"
)

type OutshiftJobs struct {
	outshiftService outshift.OutshiftService
	interval        time.Duration
	now             func() time.Time
}

func NewOutshiftJobs(outshiftService outshift.OutshiftService, interval time.Duration) *OutshiftJobs {
	return &OutshiftJobs{
		outshiftService: outshiftService,
		interval:        interval,
		now:             time.Now,
	}
}

// RegisterJobs adds the fleet snapshot. A zero interval disables it.
func (j *OutshiftJobs) RegisterJobs(scheduler *Scheduler) error {
	if j.interval <= 0 {
		slog.Info("Cron: outshift fleet snapshot disabled")
		return nil
	}
	return scheduler.AddJob(Job{
		Name:     "outshift_fleet_snapshot",
		Interval: j.interval,
		Timeout:  j.interval,
		Fn:       j.FleetSnapshot,
	})
}

// FleetSnapshot computes yesterday's global report and publishes it as
// gauges and a log line.
func (j *OutshiftJobs) FleetSnapshot(ctx context.Context) error {
	report, err := j.outshiftService.GetGlobalReport(ctx, outshift.ReportFilter{
		DatePreset: outshift.PresetYesterday,
	})
	if err != nil {
		return fmt.Errorf("failed to build fleet snapshot: %w", err)
	}

	metrics.FleetAgents.WithLabelValues("total").Set(float64(report.TotalAgents))
	metrics.FleetAgents.WithLabelValues("with_activity").Set(float64(report.AgentsWithActivity))
	metrics.FleetAgents.WithLabelValues("with_outshift").Set(float64(report.AgentsWithOutshift))
	metrics.FleetMinutes.WithLabelValues("total").Set(report.TotalActivityMinutes)
	metrics.FleetMinutes.WithLabelValues(string(outshift.ClassificationInShift)).Set(report.TotalInShiftMinutes)
	metrics.FleetMinutes.WithLabelValues(string(outshift.ClassificationOutShift)).Set(report.TotalOutShiftMinutes)
	metrics.FleetOutShiftPercentage.Set(report.OverallOutShiftPercentage)
	metrics.FleetSnapshotTimestamp.Set(float64(j.now().Unix()))

	attrs := []any{
		"period", report.PeriodStart,
		"total_agents", report.TotalAgents,
		"agents_with_activity", report.AgentsWithActivity,
		"agents_with_outshift", report.AgentsWithOutshift,
		"out_shift_minutes", report.TotalOutShiftMinutes,
		"overall_out_shift_percentage", report.OverallOutShiftPercentage,
	}
	if len(report.AgentRankings) > 0 && report.AgentRankings[0].OutShiftTicketsCount > 0 {
		top := report.AgentRankings[0]
		attrs = append(attrs, "top_agent", top.AgentName, "top_agent_out_shift_tickets", top.OutShiftTicketsCount)
	}
	slog.Info("Cron: outshift fleet snapshot", attrs...)

	return nil
}
