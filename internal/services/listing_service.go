package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/metrics"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/repository"
	"github.com/stwalsh4118/hearth/internal/search"
)

// Service-level errors
var (
	ErrInvalidListingID = errors.New("invalid listing id")
	ErrListingNotFound  = errors.New("listing not found")
	ErrInvalidFilter    = errors.New("invalid search filter")
)

// FilterValidationError carries the field errors of a rejected filter.
// It matches ErrInvalidFilter with errors.Is.
type FilterValidationError struct {
	Errors []search.FieldError
}

func (e *FilterValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidFilter, strings.Join(msgs, "; "))
}

func (e *FilterValidationError) Unwrap() error {
	return ErrInvalidFilter
}

// SearchRequest is a filter search as received from a client. Page and
// Limit are raw and get normalized.
type SearchRequest struct {
	Filter models.ListingFilter
	Page   int
	Limit  int
	Sort   models.Sort
}

// ListingService defines the business operations on listings.
type ListingService interface {
	// GetListing returns the full listing for id.
	// Returns ErrInvalidListingID if id is not a UUID.
	// Returns ErrListingNotFound if no listing has that id.
	GetListing(ctx context.Context, id string) (*models.Listing, error)

	// SearchListings validates the filter and returns one page of results.
	// Returns a *FilterValidationError if the filter is invalid.
	SearchListings(ctx context.Context, req SearchRequest) (*models.SearchResult, error)
}

type listingService struct {
	repo repository.ListingRepository
	log  *logger.Logger
}

// NewListingService creates a new instance of ListingService.
func NewListingService(repo repository.ListingRepository, log *logger.Logger) ListingService {
	return &listingService{
		repo: repo,
		log:  log,
	}
}

func (s *listingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	listingID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidListingID, id)
	}

	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		s.log.Error("Failed to load listing", err, map[string]interface{}{
			"listing_id": listingID.String(),
		})
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing == nil {
		s.log.Debug("Listing not found", map[string]interface{}{
			"listing_id": listingID.String(),
		})
		return nil, ErrListingNotFound
	}

	return listing, nil
}

func (s *listingService) SearchListings(ctx context.Context, req SearchRequest) (*models.SearchResult, error) {
	validation := search.ValidateFilter(req.Filter)
	if !validation.IsValid {
		s.log.Debug("Rejected search filter", map[string]interface{}{
			"errors": len(validation.Errors),
		})
		return nil, &FilterValidationError{Errors: validation.Errors}
	}

	page := search.NewPagination(req.Page, req.Limit)

	result, err := s.repo.Search(ctx, req.Filter, page, req.Sort)
	if err != nil {
		s.log.Error("Listing search failed", err, map[string]interface{}{
			"page":  page.Page,
			"limit": page.Limit,
		})
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	metrics.SearchResultsTotal.Observe(float64(result.Total))
	s.log.Info("Listing search completed", map[string]interface{}{
		"total":    result.Total,
		"returned": len(result.Listings),
		"page":     page.Page,
		"limit":    page.Limit,
	})

	return result, nil
}
