package assignment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/auth"
	"github.com/AbduDark/MobileLinesManager/internal/line"
)

// ListFilter narrows the assignment listing.
type ListFilter struct {
	LineID   *uint      `form:"line_id"`
	ToUserID *uint      `form:"to_user_id"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Repository owns the assignment state machine. Assign, Return and Cancel
// each run as one transaction covering the log entry, the line row and the
// audit entry, so either everything moves or nothing does.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*AssignmentLog, error)
	List(ctx context.Context, filter ListFilter) ([]AssignmentLog, error)
	OpenByLineID(ctx context.Context, lineID uint) (*AssignmentLog, error)

	Assign(ctx context.Context, lineID, toUserID uint, assignedAt time.Time, expectedReturn *time.Time, notes string, audit *auditlog.AuditTrail) (*AssignmentLog, error)
	Return(ctx context.Context, id uint, returnedAt time.Time, notes string, audit *auditlog.AuditTrail) (*AssignmentLog, error)
	Cancel(ctx context.Context, id uint, notes string, audit *auditlog.AuditTrail) (*AssignmentLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*AssignmentLog, error) {
	var entry AssignmentLog
	err := r.db.WithContext(ctx).
		Preload("Line").
		Preload("Line.Group").
		Preload("ToUser").
		Preload("FromUser").
		First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]AssignmentLog, error) {
	query := r.db.WithContext(ctx).
		Preload("Line").
		Preload("ToUser")

	if filter.LineID != nil {
		query = query.Where("line_id = ?", *filter.LineID)
	}
	if filter.ToUserID != nil {
		query = query.Where("to_user_id = ?", *filter.ToUserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("assigned_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("assigned_at < ?", filter.ToDate.AddDate(0, 0, 1))
	}

	var entries []AssignmentLog
	err := query.Order("assigned_at DESC").Find(&entries).Error
	return entries, err
}

// OpenByLineID returns the pending assignment holding the line, nil when the
// line is free.
func (r *repository) OpenByLineID(ctx context.Context, lineID uint) (*AssignmentLog, error) {
	var entry AssignmentLog
	err := r.db.WithContext(ctx).
		Where("line_id = ? AND status = ?", lineID, StatusPending).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Assign(ctx context.Context, lineID, toUserID uint, assignedAt time.Time, expectedReturn *time.Time, notes string, audit *auditlog.AuditTrail) (*AssignmentLog, error) {
	var entry *AssignmentLog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// State checks run inside the transaction so a concurrent assign
		// cannot hand the same line to two workers.
		var l line.Line
		if err := tx.First(&l, lineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrLineNotFound
			}
			return err
		}
		if l.Status != line.StatusAvailable {
			return apperr.ErrLineNotAvailable
		}

		var u auth.User
		if err := tx.First(&u, toUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrUserNotFound
			}
			return err
		}
		if !u.IsEligibleAssignee() {
			return apperr.ErrWorkerNotEligible
		}

		entry = &AssignmentLog{
			LineID:             lineID,
			FromUserID:         audit.UserID,
			ToUserID:           toUserID,
			AssignedAt:         assignedAt,
			ExpectedReturnDate: expectedReturn,
			Status:             StatusPending,
			Notes:              notes,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":               line.StatusAssigned,
			"assigned_to_id":       toUserID,
			"assigned_at":          assignedAt,
			"expected_return_date": expectedReturn,
		}
		if err := tx.Model(&line.Line{}).Where("id = ?", lineID).Updates(updates).Error; err != nil {
			return err
		}

		audit.EntityID = entry.ID
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Return(ctx context.Context, id uint, returnedAt time.Time, notes string, audit *auditlog.AuditTrail) (*AssignmentLog, error) {
	var entry *AssignmentLog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e AssignmentLog
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrAssignmentNotFound
			}
			return err
		}
		if e.Status != StatusPending {
			return apperr.ErrAssignmentNotPending
		}

		e.Status = StatusReturned
		e.ReturnedAt = &returnedAt
		if notes != "" {
			e.Notes = notes
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}

		// A returned line stays out of the available pool until an admin
		// reactivates it.
		updates := map[string]interface{}{
			"status":               line.StatusReturned,
			"assigned_to_id":       nil,
			"assigned_at":          nil,
			"expected_return_date": nil,
		}
		if err := tx.Model(&line.Line{}).Where("id = ?", e.LineID).Updates(updates).Error; err != nil {
			return err
		}

		audit.EntityID = e.ID
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Cancel(ctx context.Context, id uint, notes string, audit *auditlog.AuditTrail) (*AssignmentLog, error) {
	var entry *AssignmentLog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e AssignmentLog
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrAssignmentNotFound
			}
			return err
		}
		if e.Status != StatusPending {
			return apperr.ErrAssignmentNotPending
		}

		e.Status = StatusCancelled
		if notes != "" {
			e.Notes = notes
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}

		// Cancelling undoes the hand-over, so the line goes straight back
		// to the available pool.
		updates := map[string]interface{}{
			"status":               line.StatusAvailable,
			"assigned_to_id":       nil,
			"assigned_at":          nil,
			"expected_return_date": nil,
		}
		if err := tx.Model(&line.Line{}).Where("id = ?", e.LineID).Updates(updates).Error; err != nil {
			return err
		}

		audit.EntityID = e.ID
		if err := tx.Create(audit).Error; err != nil {
			return err
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
