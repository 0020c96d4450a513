package line

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/group"
)

type Service interface {
	Add(ctx context.Context, l *Line, actorID *uint, ip string) error
	Update(ctx context.Context, l *Line, actorID *uint, ip string) error
	Delete(ctx context.Context, id uint, actorID *uint, ip string) error
	Get(ctx context.Context, id uint) (*Line, error)
	List(ctx context.Context, filter ListFilter) ([]Line, error)
	Reactivate(ctx context.Context, id uint, actorID *uint, ip string) error
	SetStatus(ctx context.Context, id uint, status string, actorID *uint, ip string) error
}

type service struct {
	repo   Repository
	groups group.Repository
	audit  auditlog.Service
}

func NewService(repo Repository, groups group.Repository, audit auditlog.Service) Service {
	return &service{repo: repo, groups: groups, audit: audit}
}

// Add inserts a new available line after the phone, group and capacity
// checks. The uniqueness check is backed by the unique index on
// phone_number, so a race cannot slip a duplicate through.
func (s *service) Add(ctx context.Context, l *Line, actorID *uint, ip string) error {
	l.PhoneNumber = strings.TrimSpace(l.PhoneNumber)
	if l.PhoneNumber == "" {
		return apperr.ErrPhoneRequired
	}

	g, err := s.groups.GetByID(ctx, l.GroupID)
	if err != nil {
		return err
	}
	if g == nil {
		return apperr.ErrGroupNotFound
	}
	if g.IsFull() {
		return apperr.ErrGroupFull
	}

	exists, err := s.repo.PhoneExists(ctx, l.PhoneNumber)
	if err != nil {
		return err
	}
	if exists {
		return apperr.ErrDuplicatePhone
	}

	l.Status = StatusAvailable
	l.AssignedToID = nil
	l.AssignedAt = nil

	if err := s.repo.Create(ctx, l); err != nil {
		return fmt.Errorf("create line: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityLine, l.ID, auditlog.ActionCreate,
		fmt.Sprintf("line %s added to group %q", l.PhoneNumber, g.Name), ip)
	return nil
}

// Update edits descriptive fields. Status and assignment fields are owned by
// the assignment workflow and the explicit status operations.
func (s *service) Update(ctx context.Context, l *Line, actorID *uint, ip string) error {
	existing, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrLineNotFound
	}

	l.PhoneNumber = strings.TrimSpace(l.PhoneNumber)
	if l.PhoneNumber == "" {
		return apperr.ErrPhoneRequired
	}

	if l.PhoneNumber != existing.PhoneNumber {
		exists, err := s.repo.PhoneExists(ctx, l.PhoneNumber)
		if err != nil {
			return err
		}
		if exists {
			return apperr.ErrDuplicatePhone
		}
	}

	l.Status = existing.Status
	l.AssignedToID = existing.AssignedToID
	l.AssignedAt = existing.AssignedAt
	l.ExpectedReturnDate = existing.ExpectedReturnDate
	l.CreatedAt = existing.CreatedAt
	l.Group = nil
	l.AssignedTo = nil

	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("update line: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityLine, l.ID, auditlog.ActionUpdate,
		fmt.Sprintf("line %s updated", l.PhoneNumber), ip)
	return nil
}

// Delete refuses to remove a line with an open assignment: the assignment
// log is immutable history and must keep a valid line reference.
func (s *service) Delete(ctx context.Context, id uint, actorID *uint, ip string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrLineNotFound
	}

	pending, err := s.repo.PendingAssignmentsCount(ctx, id)
	if err != nil {
		return err
	}
	if pending > 0 {
		return apperr.ErrLineHasPendingAssignment
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete line: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityLine, id, auditlog.ActionDelete,
		fmt.Sprintf("line %s deleted", existing.PhoneNumber), ip)
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*Line, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.ErrLineNotFound
	}
	return l, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Line, error) {
	return s.repo.List(ctx, filter)
}

// Reactivate moves a returned line back to the available pool. Returning a
// line deliberately does not do this; reuse is a separate admin decision.
func (s *service) Reactivate(ctx context.Context, id uint, actorID *uint, ip string) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return apperr.ErrLineNotFound
	}
	if l.Status != StatusReturned {
		return apperr.ErrLineNotReturned
	}

	l.Status = StatusAvailable
	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("reactivate line: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityLine, id, auditlog.ActionReactivateLine,
		fmt.Sprintf("line %s reactivated", l.PhoneNumber), ip)
	return nil
}

// SetStatus is the administrative escape hatch for Blocked/Expired. It never
// touches assigned lines; those go through the assignment workflow.
func (s *service) SetStatus(ctx context.Context, id uint, status string, actorID *uint, ip string) error {
	if status != StatusBlocked && status != StatusExpired && status != StatusAvailable {
		return fmt.Errorf("%w: status %q cannot be set directly", apperr.ErrLineNotAvailable, status)
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return apperr.ErrLineNotFound
	}
	if l.Status == StatusAssigned {
		return apperr.ErrLineNotAvailable
	}

	l.Status = status
	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("set line status: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityLine, id, auditlog.ActionSetLineStatus,
		fmt.Sprintf("line %s status set to %s", l.PhoneNumber, status), ip)
	return nil
}
