package outshift

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/outshift"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
)

const dateLayout = "2006-01-02"

// assembleAgentReport sums per-unit totals into an agent report. Each unit
// applies its own calendar to the same activity, so agent minutes add up
// across units. Out-shift sessions and tickets are counted once per agent.
func assembleAgentReport(agent user.User, startDate, endDate time.Time, units []buTotals) outshift.AgentReport {
	report := outshift.AgentReport{
		AgentID:             agent.ID,
		AgentName:           agent.Username,
		AgentFullName:       agent.FullName,
		PeriodStart:         startDate.Format(dateLayout),
		PeriodEnd:           endDate.Format(dateLayout),
		BusinessUnitMetrics: make([]outshift.AgentBUMetrics, 0, len(units)),
		HasBUAssignments:    len(agent.ActiveBusinessUnitIDs()) > 0,
	}

	var inShift, outShift time.Duration
	sessions := make(map[int64]struct{})
	tickets := make(map[uuid.UUID]struct{})
	for _, u := range units {
		inShift += u.inShift
		outShift += u.outShift
		for id := range u.outSessions {
			sessions[id] = struct{}{}
		}
		for id := range u.outTickets {
			tickets[id] = struct{}{}
		}
		report.BusinessUnitMetrics = append(report.BusinessUnitMetrics, u.metrics)
	}

	total := inShift + outShift
	report.TotalActivityMinutes = round2(total.Minutes())
	report.TotalInShiftMinutes = round2(inShift.Minutes())
	report.TotalOutShiftMinutes = round2(outShift.Minutes())
	report.TotalOutShiftPercentage = percentage(outShift, total)
	report.OutShiftSessionsCount = len(sessions)
	report.OutShiftTicketsCount = len(tickets)
	report.HasActivity = total > 0

	return report
}

// assembleGlobalReport ranks agents by distinct out-shift tickets,
// descending. Ties keep the order of reports.
func assembleGlobalReport(startDate, endDate time.Time, reports []outshift.AgentReport) outshift.GlobalReport {
	global := outshift.GlobalReport{
		PeriodStart:   startDate.Format(dateLayout),
		PeriodEnd:     endDate.Format(dateLayout),
		TotalAgents:   len(reports),
		AgentRankings: make([]outshift.AgentSummary, 0, len(reports)),
	}

	var totalActivity, totalIn, totalOut float64
	var percentageSum float64
	for _, r := range reports {
		if r.HasActivity {
			global.AgentsWithActivity++
			percentageSum += r.TotalOutShiftPercentage
			if r.TotalOutShiftMinutes > 0 {
				global.AgentsWithOutshift++
			}
		}
		totalActivity += r.TotalActivityMinutes
		totalIn += r.TotalInShiftMinutes
		totalOut += r.TotalOutShiftMinutes
		global.TotalOutShiftSessionsCount += r.OutShiftSessionsCount
		global.TotalOutShiftTicketsCount += r.OutShiftTicketsCount

		global.AgentRankings = append(global.AgentRankings, outshift.AgentSummary{
			AgentID:                 r.AgentID,
			AgentName:               r.AgentName,
			AgentFullName:           r.AgentFullName,
			BusinessUnitCount:       len(r.BusinessUnitMetrics),
			TotalActivityMinutes:    r.TotalActivityMinutes,
			TotalInShiftMinutes:     r.TotalInShiftMinutes,
			TotalOutShiftMinutes:    r.TotalOutShiftMinutes,
			TotalOutShiftPercentage: r.TotalOutShiftPercentage,
			OutShiftSessionsCount:   r.OutShiftSessionsCount,
			OutShiftTicketsCount:    r.OutShiftTicketsCount,
		})
	}

	sort.SliceStable(global.AgentRankings, func(i, j int) bool {
		return global.AgentRankings[i].OutShiftTicketsCount > global.AgentRankings[j].OutShiftTicketsCount
	})
	for i := range global.AgentRankings {
		global.AgentRankings[i].Rank = i + 1
	}

	global.TotalActivityMinutes = round2(totalActivity)
	global.TotalInShiftMinutes = round2(totalIn)
	global.TotalOutShiftMinutes = round2(totalOut)
	if totalActivity > 0 {
		global.OverallOutShiftPercentage = round2(totalOut / totalActivity * 100)
	}
	if global.AgentsWithActivity > 0 {
		global.AvgOutShiftPercentage = round2(percentageSum / float64(global.AgentsWithActivity))
	}
	global.HasData = global.AgentsWithActivity > 0

	return global
}
