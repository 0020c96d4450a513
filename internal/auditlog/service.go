package auditlog

import (
	"context"
	"log"
	"math"
)

type Service interface {
	// Log appends one audit entry. Failures are logged, never propagated:
	// an audit write must not fail the operation it describes when that
	// operation has already committed.
	Log(ctx context.Context, userID *uint, entityType string, entityID uint, action, details, ip string)
	List(ctx context.Context, filter Filter) (*Page, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Log(ctx context.Context, userID *uint, entityType string, entityID uint, action, details, ip string) {
	entry := &AuditTrail{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Details:    details,
		IPAddress:  ip,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("auditlog: failed to record %s %s/%d: %v", action, entityType, entityID, err)
	}
}

func (s *service) List(ctx context.Context, filter Filter) (*Page, error) {
	entries, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &Page{
		Data:       entries,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}
