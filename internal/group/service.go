package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/operator"
	"github.com/AbduDark/MobileLinesManager/utils"
)

// Defaults carries the configured fallbacks for new cash-wallet groups.
type Defaults struct {
	ValidityDays          int
	AlertDaysBeforeExpiry int
}

type Service interface {
	Create(ctx context.Context, g *Group, actorID *uint, ip string) error
	Update(ctx context.Context, g *Group, actorID *uint, ip string) error
	Delete(ctx context.Context, id uint, actorID *uint, ip string) error
	Get(ctx context.Context, id uint) (*Snapshot, error)
	List(ctx context.Context, filter ListFilter) ([]Snapshot, error)
	RenewValidity(ctx context.Context, id uint, actorID *uint, ip string) (*Snapshot, error)
}

type service struct {
	repo     Repository
	ops      operator.Repository
	audit    auditlog.Service
	clock    utils.Clock
	defaults Defaults
}

func NewService(repo Repository, ops operator.Repository, audit auditlog.Service, clock utils.Clock, defaults Defaults) Service {
	return &service{repo: repo, ops: ops, audit: audit, clock: clock, defaults: defaults}
}

func (s *service) Create(ctx context.Context, g *Group, actorID *uint, ip string) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return apperr.ErrNameRequired
	}

	op, err := s.ops.GetByID(ctx, g.OperatorID)
	if err != nil {
		return err
	}
	if op == nil {
		return apperr.ErrOperatorNotFound
	}

	if g.Type == "" {
		g.Type = TypeWithoutCashWallet
	}
	if g.Status == "" {
		g.Status = StatusActive
	}
	if g.MaxLinesCount <= 0 {
		g.MaxLinesCount = 50
	}
	if g.AlertDaysBeforeExpiry <= 0 {
		g.AlertDaysBeforeExpiry = s.defaults.AlertDaysBeforeExpiry
	}

	// A new cash-wallet group starts its validity window immediately.
	if g.Type == TypeWithCashWallet {
		days := s.defaults.ValidityDays
		if g.ValidityDays != nil && *g.ValidityDays > 0 {
			days = *g.ValidityDays
		} else {
			g.ValidityDays = &days
		}
		today := s.clock.Today()
		validity := today.AddDate(0, 0, days)
		g.ValidityDate = &validity
		g.LastRenewalDate = &today
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityGroup, g.ID, auditlog.ActionCreate,
		fmt.Sprintf("group %q created under operator %q", g.Name, op.Name), ip)
	return nil
}

func (s *service) Update(ctx context.Context, g *Group, actorID *uint, ip string) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return apperr.ErrNameRequired
	}

	existing, err := s.repo.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrGroupNotFound
	}

	// The validity window is owned by creation and renewal, not plain edits.
	g.ValidityDate = existing.ValidityDate
	g.LastRenewalDate = existing.LastRenewalDate
	g.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, g); err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityGroup, g.ID, auditlog.ActionUpdate,
		fmt.Sprintf("group %q updated", g.Name), ip)
	return nil
}

// Delete refuses to remove a group that still contains lines.
func (s *service) Delete(ctx context.Context, id uint, actorID *uint, ip string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrGroupNotFound
	}

	if existing.CurrentLinesCount > 0 {
		return apperr.ErrGroupHasLines
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityGroup, id, auditlog.ActionDelete,
		fmt.Sprintf("group %q deleted", existing.Name), ip)
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*Snapshot, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.ErrGroupNotFound
	}
	snap := g.SnapshotAt(s.clock.Today())
	return &snap, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Snapshot, error) {
	groups, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	snaps := make([]Snapshot, 0, len(groups))
	for _, g := range groups {
		snaps = append(snaps, g.SnapshotAt(today))
	}
	return snaps, nil
}

// RenewValidity restarts the validity window from today. Only legal for
// cash-wallet groups.
func (s *service) RenewValidity(ctx context.Context, id uint, actorID *uint, ip string) (*Snapshot, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.ErrGroupNotFound
	}
	if !g.HasCashWallet() {
		return nil, apperr.ErrNoCashWallet
	}

	days := s.defaults.ValidityDays
	if g.ValidityDays != nil && *g.ValidityDays > 0 {
		days = *g.ValidityDays
	}

	today := s.clock.Today()
	validity := today.AddDate(0, 0, days)
	if err := s.repo.Renew(ctx, id, validity, today); err != nil {
		return nil, fmt.Errorf("renew group validity: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityGroup, id, auditlog.ActionRenewValidity,
		fmt.Sprintf("group %q validity renewed until %s", g.Name, validity.Format("2006-01-02")), ip)

	g.ValidityDate = &validity
	g.LastRenewalDate = &today
	snap := g.SnapshotAt(today)
	return &snap, nil
}
