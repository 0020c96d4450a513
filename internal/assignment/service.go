package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/utils"
)

// AssignInput carries everything needed to hand a line to a worker.
type AssignInput struct {
	LineID             uint
	ToUserID           uint
	ExpectedReturnDate *time.Time
	Notes              string
}

type Service interface {
	Assign(ctx context.Context, in AssignInput, actorID *uint, ip string) (*AssignmentLog, error)
	Return(ctx context.Context, id uint, notes string, actorID *uint, ip string) (*AssignmentLog, error)
	Cancel(ctx context.Context, id uint, notes string, actorID *uint, ip string) (*AssignmentLog, error)
	Get(ctx context.Context, id uint) (*AssignmentLog, error)
	List(ctx context.Context, filter ListFilter) ([]AssignmentLog, error)
}

type service struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) Service {
	return &service{repo: repo, clock: clock}
}

func (s *service) Assign(ctx context.Context, in AssignInput, actorID *uint, ip string) (*AssignmentLog, error) {
	now := s.clock.Now()

	// The audit entry commits inside the same transaction as the state
	// change; the repository fills in the entity ID.
	audit := &auditlog.AuditTrail{
		EntityType: auditlog.EntityAssignment,
		Action:     auditlog.ActionAssignLine,
		UserID:     actorID,
		Details:    fmt.Sprintf("line %d assigned to user %d", in.LineID, in.ToUserID),
		IPAddress:  ip,
	}

	entry, err := s.repo.Assign(ctx, in.LineID, in.ToUserID, now, in.ExpectedReturnDate, in.Notes, audit)
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, entry.ID)
}

func (s *service) Return(ctx context.Context, id uint, notes string, actorID *uint, ip string) (*AssignmentLog, error) {
	audit := &auditlog.AuditTrail{
		EntityType: auditlog.EntityAssignment,
		Action:     auditlog.ActionReturnLine,
		UserID:     actorID,
		Details:    fmt.Sprintf("assignment %d returned", id),
		IPAddress:  ip,
	}

	entry, err := s.repo.Return(ctx, id, s.clock.Now(), notes, audit)
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, entry.ID)
}

func (s *service) Cancel(ctx context.Context, id uint, notes string, actorID *uint, ip string) (*AssignmentLog, error) {
	audit := &auditlog.AuditTrail{
		EntityType: auditlog.EntityAssignment,
		Action:     auditlog.ActionCancelAssignment,
		UserID:     actorID,
		Details:    fmt.Sprintf("assignment %d cancelled", id),
		IPAddress:  ip,
	}

	entry, err := s.repo.Cancel(ctx, id, notes, audit)
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, entry.ID)
}

func (s *service) Get(ctx context.Context, id uint) (*AssignmentLog, error) {
	return s.reload(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]AssignmentLog, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) reload(ctx context.Context, id uint) (*AssignmentLog, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperr.ErrAssignmentNotFound
	}
	return entry, nil
}
