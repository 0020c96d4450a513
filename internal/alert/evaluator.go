package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/line"
	"github.com/AbduDark/MobileLinesManager/utils"
)

type Service interface {
	// CheckAll runs every evaluation pass against current data and the
	// current calendar day. Running it twice on the same day with the same
	// data yields the same result.
	CheckAll(ctx context.Context) (*Result, error)

	// Latest returns the result of the most recent run, nil before the
	// first one.
	Latest() *Result
}

type service struct {
	groups group.Repository
	lines  line.Repository
	clock  utils.Clock

	mu     sync.RWMutex
	latest *Result
}

func NewService(groups group.Repository, lines line.Repository, clock utils.Clock) Service {
	return &service{groups: groups, lines: lines, clock: clock}
}

func (s *service) CheckAll(ctx context.Context) (*Result, error) {
	today := s.clock.Today()
	result := &Result{
		GeneratedAt: s.clock.Now(),
		Items:       []Item{},
	}

	if err := s.checkGroupValidity(ctx, result, today); err != nil {
		return nil, err
	}
	if err := s.checkGroupDeliveries(ctx, result, today); err != nil {
		return nil, err
	}
	if err := s.checkOverdueLines(ctx, result, today); err != nil {
		return nil, err
	}

	result.Counts = make(map[string]int)
	for _, item := range result.Items {
		result.Counts[item.Type]++
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
	return result, nil
}

// checkGroupValidity walks the cash-wallet groups and classifies each as
// expiring or expired. An alert rule override replaces the group's own lead
// time before the window check.
func (s *service) checkGroupValidity(ctx context.Context, result *Result, today time.Time) error {
	groups, err := s.groups.CashWalletGroupsWithValidity(ctx)
	if err != nil {
		return fmt.Errorf("load cash-wallet groups: %w", err)
	}

	for _, g := range groups {
		lead, err := s.groups.LeadDaysOverride(ctx, g.ID)
		if err != nil {
			return err
		}
		if lead != nil {
			g.AlertDaysBeforeExpiry = *lead
		}

		id := g.ID
		switch {
		case g.IsExpired(today):
			overdue := -utils.DaysBetween(today, *g.ValidityDate)
			result.Items = append(result.Items, Item{
				Type:    TypeGroupValidityExpired,
				GroupID: &id,
				Title:   fmt.Sprintf("Group %q validity expired", g.Name),
				Message: fmt.Sprintf("validity ended %d day(s) ago on %s", overdue, g.ValidityDate.Format("2006-01-02")),
				Days:    overdue,
				Date:    g.ValidityDate,
			})
		case g.IsExpiringSoon(today):
			remaining := utils.DaysBetween(today, *g.ValidityDate)
			result.Items = append(result.Items, Item{
				Type:    TypeGroupValidityExpiring,
				GroupID: &id,
				Title:   fmt.Sprintf("Group %q validity expiring", g.Name),
				Message: fmt.Sprintf("validity ends in %d day(s) on %s", remaining, g.ValidityDate.Format("2006-01-02")),
				Days:    remaining,
				Date:    g.ValidityDate,
			})
		}
	}
	return nil
}

func (s *service) checkGroupDeliveries(ctx context.Context, result *Result, today time.Time) error {
	groups, err := s.groups.DeliveredGroups(ctx)
	if err != nil {
		return fmt.Errorf("load delivered groups: %w", err)
	}

	for _, g := range groups {
		if !g.IsDeliveryOverdue(today) {
			continue
		}
		id := g.ID
		overdue := -utils.DaysBetween(today, *g.ExpectedReturnDate)
		client := ""
		if g.DeliveredToClientName != nil {
			client = *g.DeliveredToClientName
		}
		result.Items = append(result.Items, Item{
			Type:    TypeGroupNotReturned,
			GroupID: &id,
			Title:   fmt.Sprintf("Group %q not returned by client", g.Name),
			Message: fmt.Sprintf("expected back from %q %d day(s) ago", client, overdue),
			Days:    overdue,
			Date:    g.ExpectedReturnDate,
		})
	}
	return nil
}

func (s *service) checkOverdueLines(ctx context.Context, result *Result, today time.Time) error {
	lines, err := s.lines.OverdueLines(ctx, today)
	if err != nil {
		return fmt.Errorf("load overdue lines: %w", err)
	}

	for _, l := range lines {
		id := l.ID
		overdue := -utils.DaysBetween(today, *l.ExpectedReturnDate)
		holder := ""
		if l.AssignedTo != nil {
			holder = l.AssignedTo.FullName
		}
		result.Items = append(result.Items, Item{
			Type:    TypeLineNotReturned,
			LineID:  &id,
			GroupID: &l.GroupID,
			Title:   fmt.Sprintf("Line %s not returned", l.PhoneNumber),
			Message: fmt.Sprintf("held by %q, expected back %d day(s) ago", holder, overdue),
			Days:    overdue,
			Date:    l.ExpectedReturnDate,
		})
	}
	return nil
}

func (s *service) Latest() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
