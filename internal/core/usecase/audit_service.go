package usecase

import (
	"context"
	"fmt"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

// AuditService is the read side of the action trail. Writes happen only
// through the Recorder.
type AuditService struct {
	records ports.ActionRecordRepository
}

func NewAuditService(records ports.ActionRecordRepository) *AuditService {
	return &AuditService{records: records}
}

func (s *AuditService) List(ctx context.Context, actor domain.Actor, filter domain.ActionFilter) ([]domain.ActionRecord, error) {
	if actor.Role != domain.RoleSuperAdmin && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("action trail: %w", domain.ErrPermissionDenied)
	}
	if filter.Action != 0 && (filter.Action < domain.ActionCreate || filter.Action > domain.ActionLogout) {
		return nil, fmt.Errorf("action %d: %w", filter.Action, domain.ErrInvalidFilter)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.records.List(ctx, filter)
}
