package ports

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type ActionRecordRepository interface {
	Create(ctx context.Context, record domain.ActionRecord) (domain.ActionRecord, error)
	List(ctx context.Context, filter domain.ActionFilter) ([]domain.ActionRecord, error)
}
