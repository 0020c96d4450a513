package group

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows the group listing.
type ListFilter struct {
	OperatorID *uint  `form:"operator_id"`
	Search     string `form:"search"`
}

type Repository interface {
	Create(ctx context.Context, g *Group) error
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Group, error)
	List(ctx context.Context, filter ListFilter) ([]Group, error)
	LinesCount(ctx context.Context, id uint) (int64, error)
	Renew(ctx context.Context, id uint, validityDate, renewalDate time.Time) error

	// Alert evaluation inputs
	CashWalletGroupsWithValidity(ctx context.Context) ([]Group, error)
	DeliveredGroups(ctx context.Context) ([]Group, error)
	LeadDaysOverride(ctx context.Context, groupID uint) (*int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) Update(ctx context.Context, g *Group) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Group{}, id).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Group, error) {
	var g Group
	err := r.db.WithContext(ctx).
		Preload("Operator").
		First(&g, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	count, err := r.LinesCount(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.CurrentLinesCount = int(count)
	return &g, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Group, error) {
	query := r.db.WithContext(ctx).Preload("Operator")

	if filter.OperatorID != nil {
		query = query.Where("operator_id = ?", *filter.OperatorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR notes LIKE ?", like, like)
	}

	var groups []Group
	if err := query.Order("name").Find(&groups).Error; err != nil {
		return nil, err
	}

	if err := r.fillLineCounts(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// fillLineCounts resolves current line counts for a set of groups in one
// grouped query instead of one count per group.
func (r *repository) fillLineCounts(ctx context.Context, groups []Group) error {
	if len(groups) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}

	type row struct {
		GroupID uint
		Count   int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("lines").
		Select("group_id, COUNT(*) AS count").
		Where("group_id IN ?", ids).
		Group("group_id").
		Find(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.GroupID] = row.Count
	}
	for i := range groups {
		groups[i].CurrentLinesCount = counts[groups[i].ID]
	}
	return nil
}

func (r *repository) LinesCount(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("lines").
		Where("group_id = ?", id).
		Count(&count).Error
	return count, err
}

// Renew updates only the validity fields; callers have already validated the
// group type.
func (r *repository) Renew(ctx context.Context, id uint, validityDate, renewalDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Group{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"validity_date":     validityDate,
			"last_renewal_date": renewalDate,
			"updated_at":        renewalDate,
		}).Error
}

func (r *repository) CashWalletGroupsWithValidity(ctx context.Context) ([]Group, error) {
	var groups []Group
	err := r.db.WithContext(ctx).
		Preload("Operator").
		Where("type = ? AND validity_date IS NOT NULL", TypeWithCashWallet).
		Order("id").
		Find(&groups).Error
	return groups, err
}

func (r *repository) DeliveredGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	err := r.db.WithContext(ctx).
		Preload("Operator").
		Where("status = ? AND expected_return_date IS NOT NULL", StatusDeliveredToClient).
		Order("id").
		Find(&groups).Error
	return groups, err
}

// LeadDaysOverride resolves the alert lead time override for a group: a
// group-specific enabled rule first, then the global rule. Nil when neither
// exists, in which case the group's own lead-time field applies.
func (r *repository) LeadDaysOverride(ctx context.Context, groupID uint) (*int, error) {
	var rule AlertRule
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND enabled = ?", groupID, true).
		First(&rule).Error
	if err == nil {
		return &rule.DaysBeforeExpiry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("group_id IS NULL AND enabled = ?", true).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule.DaysBeforeExpiry, nil
}
