package line

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows the line listing.
type ListFilter struct {
	GroupID *uint  `form:"group_id"`
	Status  string `form:"status"`
	Search  string `form:"search"`
}

type Repository interface {
	Create(ctx context.Context, l *Line) error
	Update(ctx context.Context, l *Line) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Line, error)
	List(ctx context.Context, filter ListFilter) ([]Line, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	PendingAssignmentsCount(ctx context.Context, lineID uint) (int64, error)

	// Alert evaluation input
	OverdueLines(ctx context.Context, today time.Time) ([]Line, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Line) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) Update(ctx context.Context, l *Line) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Line{}, id).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Line, error) {
	var l Line
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Group.Operator").
		Preload("AssignedTo").
		First(&l, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Line, error) {
	query := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Group.Operator").
		Preload("AssignedTo")

	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"phone_number LIKE ? OR serial_number LIKE ? OR cash_wallet_id LIKE ? OR national_id LIKE ?",
			like, like, like, like)
	}

	var lines []Line
	err := query.Order("created_at DESC").Find(&lines).Error
	return lines, err
}

func (r *repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Line{}).
		Where("phone_number = ?", phone).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) PendingAssignmentsCount(ctx context.Context, lineID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("assignment_logs").
		Where("line_id = ? AND status = ?", lineID, "Pending").
		Count(&count).Error
	return count, err
}

// OverdueLines returns lines past their expected return date that have not
// been returned, ordered for stable alert output.
func (r *repository) OverdueLines(ctx context.Context, today time.Time) ([]Line, error) {
	var lines []Line
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Group.Operator").
		Preload("AssignedTo").
		Where("expected_return_date IS NOT NULL AND expected_return_date < ? AND status <> ?", today, StatusReturned).
		Order("id").
		Find(&lines).Error
	return lines, err
}
