package operator

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, op *Operator) error
	Update(ctx context.Context, op *Operator) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Operator, error)
	List(ctx context.Context) ([]OperatorStats, error)
	GroupsCount(ctx context.Context, id uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, op *Operator) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *repository) Update(ctx context.Context, op *Operator) error {
	return r.db.WithContext(ctx).Save(op).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Operator{}, id).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Operator, error) {
	var op Operator
	err := r.db.WithContext(ctx).First(&op, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

// List returns all operators with their owned group and line counts.
func (r *repository) List(ctx context.Context) ([]OperatorStats, error) {
	var rows []OperatorStats
	err := r.db.WithContext(ctx).
		Table("operators o").
		Select(`o.*,
			(SELECT COUNT(*) FROM groups g WHERE g.operator_id = o.id) AS groups_count,
			(SELECT COUNT(*) FROM lines l JOIN groups g2 ON l.group_id = g2.id WHERE g2.operator_id = o.id) AS lines_count`).
		Order("o.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GroupsCount(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("groups").
		Where("operator_id = ?", id).
		Count(&count).Error
	return count, err
}
