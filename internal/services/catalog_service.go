package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/repository"
)

// ErrProvinceNotFound is returned when a province code or name matches
// nothing.
var ErrProvinceNotFound = errors.New("province not found")

// CatalogService exposes the lookup tables clients use to build filters.
type CatalogService interface {
	ListProvinces(ctx context.Context) ([]models.Province, error)

	// ListCities returns the province matching codeOrName and its cities.
	// Returns ErrProvinceNotFound if no province matches.
	ListCities(ctx context.Context, codeOrName string) (*models.Province, []models.City, error)

	ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error)
	ListListingTypes(ctx context.Context) ([]models.ListingType, error)
	ListFeatures(ctx context.Context) ([]models.Feature, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	log  *logger.Logger
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(repo repository.CatalogRepository, log *logger.Logger) CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) ListProvinces(ctx context.Context) ([]models.Province, error) {
	provinces, err := s.repo.ListProvinces(ctx)
	if err != nil {
		return nil, s.fail("provinces", err)
	}
	return provinces, nil
}

func (s *catalogService) ListCities(ctx context.Context, codeOrName string) (*models.Province, []models.City, error) {
	province, err := s.repo.FindProvince(ctx, codeOrName)
	if err != nil {
		return nil, nil, s.fail("province", err)
	}
	if province == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrProvinceNotFound, codeOrName)
	}

	cities, err := s.repo.ListCitiesByProvince(ctx, province.ID)
	if err != nil {
		return nil, nil, s.fail("cities", err)
	}
	return province, cities, nil
}

func (s *catalogService) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	types, err := s.repo.ListPropertyTypes(ctx)
	if err != nil {
		return nil, s.fail("property types", err)
	}
	return types, nil
}

func (s *catalogService) ListListingTypes(ctx context.Context) ([]models.ListingType, error) {
	types, err := s.repo.ListListingTypes(ctx)
	if err != nil {
		return nil, s.fail("listing types", err)
	}
	return types, nil
}

func (s *catalogService) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	features, err := s.repo.ListFeatures(ctx)
	if err != nil {
		return nil, s.fail("features", err)
	}
	return features, nil
}

func (s *catalogService) fail(what string, err error) error {
	s.log.Error("Failed to load catalog", err, map[string]interface{}{
		"catalog": what,
	})
	return fmt.Errorf("failed to list %s: %w", what, err)
}
