package reports

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/line"
)

type Repository interface {
	Dashboard(ctx context.Context, today time.Time) (*Dashboard, error)
	LinesByGroup(ctx context.Context) ([]LinesByGroupRow, error)
	ExpiringGroupCandidates(ctx context.Context) ([]group.Group, error)
	WorkerDelays(ctx context.Context, today time.Time) ([]WorkerDelayRow, error)
	AssignmentHistory(ctx context.Context, filter Filter) ([]AssignmentHistoryRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	db := r.db.WithContext(ctx)
	d := &Dashboard{LinesByStatus: make(map[string]int64)}

	if err := db.Table("operators").Count(&d.TotalOperators).Error; err != nil {
		return nil, err
	}
	if err := db.Table("groups").Count(&d.TotalGroups).Error; err != nil {
		return nil, err
	}
	if err := db.Table("lines").Count(&d.TotalLines).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status string
		Count  int64
	}
	var statuses []statusRow
	err := db.Table("lines").
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	for _, row := range statuses {
		d.LinesByStatus[row.Status] = row.Count
	}

	err = db.Table("assignment_logs").
		Where("status = ?", "Pending").
		Count(&d.PendingAssignments).Error
	if err != nil {
		return nil, err
	}

	err = db.Table("lines").
		Where("expected_return_date IS NOT NULL AND expected_return_date < ? AND status <> ?", today, line.StatusReturned).
		Count(&d.OverdueLines).Error
	if err != nil {
		return nil, err
	}

	// Expiring and expired counts are filled by the service, which owns the
	// calendar-day arithmetic.
	return d, nil
}

func (r *repository) LinesByGroup(ctx context.Context) ([]LinesByGroupRow, error) {
	var rows []LinesByGroupRow
	err := r.db.WithContext(ctx).
		Table("groups").
		Select(`groups.id AS group_id,
			groups.name AS group_name,
			groups.type AS group_type,
			groups.max_lines_count,
			operators.name AS operator_name,
			COUNT(lines.id) AS lines_count`).
		Joins("JOIN operators ON operators.id = groups.operator_id").
		Joins("LEFT JOIN lines ON lines.group_id = groups.id").
		Group("groups.id, groups.name, groups.type, groups.max_lines_count, operators.name").
		Order("operators.name, groups.name").
		Find(&rows).Error
	return rows, err
}

// ExpiringGroupCandidates returns every cash-wallet group with a validity
// date; the service applies the date window so the day arithmetic lives in
// one place.
func (r *repository) ExpiringGroupCandidates(ctx context.Context) ([]group.Group, error) {
	var groups []group.Group
	err := r.db.WithContext(ctx).
		Preload("Operator").
		Where("type = ? AND validity_date IS NOT NULL", group.TypeWithCashWallet).
		Order("validity_date").
		Find(&groups).Error
	return groups, err
}

// timestampLayouts are the textual forms sqlite hands back for date
// expressions; aggregates like MIN() lose the column type, so the value is
// scanned as text and parsed here.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (r *repository) WorkerDelays(ctx context.Context, today time.Time) ([]WorkerDelayRow, error) {
	type delayRow struct {
		WorkerID       uint
		WorkerName     string
		OverdueCount   int
		OldestExpected sql.NullString
	}

	var raw []delayRow
	err := r.db.WithContext(ctx).
		Table("lines").
		Select(`users.id AS worker_id,
			users.full_name AS worker_name,
			COUNT(*) AS overdue_count,
			MIN(lines.expected_return_date) AS oldest_expected`).
		Joins("JOIN users ON users.id = lines.assigned_to_id").
		Where("lines.expected_return_date IS NOT NULL AND lines.expected_return_date < ? AND lines.status = ?",
			today, line.StatusAssigned).
		Group("users.id, users.full_name").
		Order("overdue_count DESC").
		Find(&raw).Error
	if err != nil {
		return nil, err
	}

	rows := make([]WorkerDelayRow, 0, len(raw))
	for _, row := range raw {
		out := WorkerDelayRow{
			WorkerID:     row.WorkerID,
			WorkerName:   row.WorkerName,
			OverdueCount: row.OverdueCount,
		}
		if row.OldestExpected.Valid {
			ts, err := parseTimestamp(row.OldestExpected.String)
			if err != nil {
				return nil, err
			}
			out.OldestExpected = &ts
		}
		rows = append(rows, out)
	}
	return rows, nil
}

func (r *repository) AssignmentHistory(ctx context.Context, filter Filter) ([]AssignmentHistoryRow, error) {
	query := r.db.WithContext(ctx).
		Table("assignment_logs").
		Select(`assignment_logs.id,
			lines.phone_number,
			groups.name AS group_name,
			users.full_name AS worker_name,
			assignment_logs.assigned_at,
			assignment_logs.expected_return_date,
			assignment_logs.returned_at,
			assignment_logs.status`).
		Joins("JOIN lines ON lines.id = assignment_logs.line_id").
		Joins("JOIN groups ON groups.id = lines.group_id").
		Joins("JOIN users ON users.id = assignment_logs.to_user_id")

	if filter.WorkerID != nil {
		query = query.Where("assignment_logs.to_user_id = ?", *filter.WorkerID)
	}
	if filter.FromDate != nil {
		query = query.Where("assignment_logs.assigned_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("assignment_logs.assigned_at < ?", filter.ToDate.AddDate(0, 0, 1))
	}

	var rows []AssignmentHistoryRow
	err := query.Order("assignment_logs.assigned_at DESC").Find(&rows).Error
	return rows, err
}
