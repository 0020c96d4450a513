package operator

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
)

type Service interface {
	Create(ctx context.Context, op *Operator, actorID *uint, ip string) error
	Update(ctx context.Context, op *Operator, actorID *uint, ip string) error
	Delete(ctx context.Context, id uint, actorID *uint, ip string) error
	Get(ctx context.Context, id uint) (*Operator, error)
	List(ctx context.Context) ([]OperatorStats, error)
}

type service struct {
	repo  Repository
	audit auditlog.Service
}

func NewService(repo Repository, audit auditlog.Service) Service {
	return &service{repo: repo, audit: audit}
}

func (s *service) Create(ctx context.Context, op *Operator, actorID *uint, ip string) error {
	op.Name = strings.TrimSpace(op.Name)
	if op.Name == "" {
		return apperr.ErrNameRequired
	}

	if err := s.repo.Create(ctx, op); err != nil {
		return fmt.Errorf("create operator: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityOperator, op.ID, auditlog.ActionCreate,
		fmt.Sprintf("operator %q created", op.Name), ip)
	return nil
}

func (s *service) Update(ctx context.Context, op *Operator, actorID *uint, ip string) error {
	op.Name = strings.TrimSpace(op.Name)
	if op.Name == "" {
		return apperr.ErrNameRequired
	}

	existing, err := s.repo.GetByID(ctx, op.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrOperatorNotFound
	}

	if err := s.repo.Update(ctx, op); err != nil {
		return fmt.Errorf("update operator: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityOperator, op.ID, auditlog.ActionUpdate,
		fmt.Sprintf("operator %q updated", op.Name), ip)
	return nil
}

// Delete refuses to remove an operator that still owns groups.
func (s *service) Delete(ctx context.Context, id uint, actorID *uint, ip string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrOperatorNotFound
	}

	count, err := s.repo.GroupsCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrOperatorHasGroups
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete operator: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityOperator, id, auditlog.ActionDelete,
		fmt.Sprintf("operator %q deleted", existing.Name), ip)
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*Operator, error) {
	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, apperr.ErrOperatorNotFound
	}
	return op, nil
}

func (s *service) List(ctx context.Context) ([]OperatorStats, error) {
	return s.repo.List(ctx)
}
