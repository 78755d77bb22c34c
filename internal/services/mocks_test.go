package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/search"
)

// MockListingRepository is a mock implementation of ListingRepository for testing
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Search(ctx context.Context, filter models.ListingFilter, page search.Pagination, sort models.Sort) (*models.SearchResult, error) {
	args := m.Called(ctx, filter, page, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingRepository) ExecuteIDQuery(ctx context.Context, sql string) ([]string, error) {
	args := m.Called(ctx, sql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCatalogRepository is a mock implementation of CatalogRepository for testing
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListProvinces(ctx context.Context) ([]models.Province, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Province), args.Error(1)
}

func (m *MockCatalogRepository) FindProvince(ctx context.Context, codeOrName string) (*models.Province, error) {
	args := m.Called(ctx, codeOrName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Province), args.Error(1)
}

func (m *MockCatalogRepository) ListCitiesByProvince(ctx context.Context, provinceID string) ([]models.City, error) {
	args := m.Called(ctx, provinceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.City), args.Error(1)
}

func (m *MockCatalogRepository) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyType), args.Error(1)
}

func (m *MockCatalogRepository) ListListingTypes(ctx context.Context) ([]models.ListingType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListingType), args.Error(1)
}

func (m *MockCatalogRepository) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feature), args.Error(1)
}

// MockTranslator is a mock implementation of Translator for testing
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockTranslator) TranslateToSQL(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockTranslator) Suggest(ctx context.Context, partial string) ([]string, error) {
	args := m.Called(ctx, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
