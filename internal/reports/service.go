package reports

import (
	"context"
	"fmt"

	"github.com/AbduDark/MobileLinesManager/utils"
)

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	LinesByGroup(ctx context.Context) ([]LinesByGroupRow, error)
	ExpiringGroups(ctx context.Context, daysAhead *int) ([]ExpiringGroupRow, error)
	WorkerDelays(ctx context.Context) ([]WorkerDelayRow, error)
	AssignmentHistory(ctx context.Context, filter Filter) ([]AssignmentHistoryRow, error)

	// Export renders one report in the requested format and returns the
	// file bytes, a filename and a content type.
	Export(ctx context.Context, reportType, format string, filter Filter) ([]byte, string, string, error)
}

type service struct {
	repo     Repository
	exporter Exporter
	clock    utils.Clock
}

func NewService(repo Repository, exporter Exporter, clock utils.Clock) Service {
	return &service{repo: repo, exporter: exporter, clock: clock}
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	today := s.clock.Today()
	d, err := s.repo.Dashboard(ctx, today)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ExpiringGroupCandidates(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range candidates {
		switch {
		case g.IsExpired(today):
			d.ExpiredGroups++
		case g.IsExpiringSoon(today):
			d.ExpiringGroups++
		}
	}
	return d, nil
}

func (s *service) LinesByGroup(ctx context.Context) ([]LinesByGroupRow, error) {
	return s.repo.LinesByGroup(ctx)
}

// ExpiringGroups lists expired groups plus those inside the alert window.
// A non-nil daysAhead replaces each group's own lead time as the window.
func (s *service) ExpiringGroups(ctx context.Context, daysAhead *int) ([]ExpiringGroupRow, error) {
	today := s.clock.Today()
	candidates, err := s.repo.ExpiringGroupCandidates(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ExpiringGroupRow, 0)
	for _, g := range candidates {
		switch {
		case g.IsExpired(today):
			// always reported
		case daysAhead != nil:
			if utils.DaysBetween(today, *g.ValidityDate) > *daysAhead {
				continue
			}
		default:
			if !g.IsExpiringSoon(today) {
				continue
			}
		}
		operatorName := ""
		if g.Operator != nil {
			operatorName = g.Operator.Name
		}
		rows = append(rows, ExpiringGroupRow{
			GroupID:       g.ID,
			GroupName:     g.Name,
			OperatorName:  operatorName,
			ValidityDate:  *g.ValidityDate,
			DaysRemaining: utils.DaysBetween(today, *g.ValidityDate),
		})
	}
	return rows, nil
}

func (s *service) WorkerDelays(ctx context.Context) ([]WorkerDelayRow, error) {
	today := s.clock.Today()
	rows, err := s.repo.WorkerDelays(ctx, today)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].OldestExpected != nil {
			rows[i].MaxDaysOverdue = -utils.DaysBetween(today, *rows[i].OldestExpected)
		}
	}
	return rows, nil
}

func (s *service) AssignmentHistory(ctx context.Context, filter Filter) ([]AssignmentHistoryRow, error) {
	return s.repo.AssignmentHistory(ctx, filter)
}

func (s *service) Export(ctx context.Context, reportType, format string, filter Filter) ([]byte, string, string, error) {
	var data ReportData
	var err error

	switch reportType {
	case ReportTypeLinesByGroup:
		data.LinesByGroup, err = s.LinesByGroup(ctx)
	case ReportTypeExpiringGroups:
		data.ExpiringGroups, err = s.ExpiringGroups(ctx, filter.DaysAhead)
	case ReportTypeWorkerDelays:
		data.WorkerDelays, err = s.WorkerDelays(ctx)
	case ReportTypeAssignmentHistory:
		data.AssignmentHistory, err = s.AssignmentHistory(ctx, filter)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
	if err != nil {
		return nil, "", "", err
	}

	return s.exporter.Export(reportType, format, data)
}
