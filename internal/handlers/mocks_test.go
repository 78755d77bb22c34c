package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/middleware"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns a router carrying the request-scoped middleware
// the error helpers read from.
func newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Nop()))
	return router
}

// MockListingService is a mock implementation of ListingService for testing
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) SearchListings(ctx context.Context, req services.SearchRequest) (*models.SearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService for testing
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProvinces(ctx context.Context) ([]models.Province, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Province), args.Error(1)
}

func (m *MockCatalogService) ListCities(ctx context.Context, codeOrName string) (*models.Province, []models.City, error) {
	args := m.Called(ctx, codeOrName)
	var province *models.Province
	if p := args.Get(0); p != nil {
		province = p.(*models.Province)
	}
	var cities []models.City
	if cs := args.Get(1); cs != nil {
		cities = cs.([]models.City)
	}
	return province, cities, args.Error(2)
}

func (m *MockCatalogService) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropertyType), args.Error(1)
}

func (m *MockCatalogService) ListListingTypes(ctx context.Context) ([]models.ListingType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ListingType), args.Error(1)
}

func (m *MockCatalogService) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feature), args.Error(1)
}

// MockNLSearchService is a mock implementation of NLSearchService for testing
type MockNLSearchService struct {
	mock.Mock
}

func (m *MockNLSearchService) Search(ctx context.Context, req services.NLSearchRequest) *models.NLSearchResult {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.NLSearchResult)
}

func (m *MockNLSearchService) Suggestions(ctx context.Context, partial string) []string {
	args := m.Called(ctx, partial)
	return args.Get(0).([]string)
}

func (m *MockNLSearchService) Translate(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockNLSearchService) Available() bool {
	return m.Called().Bool(0)
}
