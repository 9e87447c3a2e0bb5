package usecase

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

// CatalogService exposes the reference data the rest of the exchange
// points at: the material list and the city list.
type CatalogService struct {
	materials ports.RecyclablesRepository
	cities    ports.CityRepository
}

func NewCatalogService(materials ports.RecyclablesRepository, cities ports.CityRepository) *CatalogService {
	return &CatalogService{materials: materials, cities: cities}
}

// Recyclables lists materials, optionally narrowed to one category.
func (s *CatalogService) Recyclables(ctx context.Context, categoryID int64) ([]domain.Recyclables, error) {
	return s.materials.List(ctx, categoryID)
}

func (s *CatalogService) Cities(ctx context.Context) ([]domain.City, error) {
	return s.cities.List(ctx)
}
