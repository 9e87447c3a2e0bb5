package ports

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type UserRepository interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	GetByPhone(ctx context.Context, phone string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
}
