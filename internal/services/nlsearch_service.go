package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/metrics"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/repository"
	"github.com/stwalsh4118/hearth/internal/search"
	"github.com/stwalsh4118/hearth/internal/translator"
)

// MinSuggestionInput is the shortest partial query that gets suggestions.
const MinSuggestionInput = 2

var errNoTranslatedResults = errors.New("translated query returned no listings")

// Translator is the subset of the translation client the search uses.
type Translator interface {
	Available() bool
	TranslateToSQL(ctx context.Context, query string) (string, error)
	Suggest(ctx context.Context, partial string) ([]string, error)
}

// NLSearchRequest is a natural-language search. Filter is optional and is
// only used when the search falls back to the filter path.
type NLSearchRequest struct {
	Query  string
	Filter models.ListingFilter
	Page   int
	Limit  int
	Sort   models.Sort
}

// NLSearchService runs natural-language searches.
type NLSearchService interface {
	// Search never fails: every error ends in the fallback or empty
	// outcome, reported in the result.
	Search(ctx context.Context, req NLSearchRequest) *models.NLSearchResult

	// Suggestions returns at most five completions for a partial query.
	Suggestions(ctx context.Context, partial string) []string

	// Translate returns the vetted SQL for query without running it.
	// Returns translator.ErrServiceUnavailable when no translator is
	// configured.
	Translate(ctx context.Context, query string) (string, error)

	Available() bool
}

type nlSearchService struct {
	translator Translator
	repo       repository.ListingRepository
	listings   ListingService
	log        *logger.Logger
}

// NewNLSearchService creates a new instance of NLSearchService. The filter
// path goes through listings so it is validated like any other search.
func NewNLSearchService(t Translator, repo repository.ListingRepository, listings ListingService, log *logger.Logger) NLSearchService {
	return &nlSearchService{
		translator: t,
		repo:       repo,
		listings:   listings,
		log:        log.WithComponent("nlsearch"),
	}
}

func (s *nlSearchService) Available() bool {
	return s.translator != nil && s.translator.Available()
}

func (s *nlSearchService) Search(ctx context.Context, req NLSearchRequest) *models.NLSearchResult {
	page := search.NewPagination(req.Page, req.Limit)
	query := strings.TrimSpace(req.Query)

	result := &models.NLSearchResult{
		Query:    query,
		Listings: []models.Listing{},
		Page:     page.Page,
		Limit:    page.Limit,
	}

	primaryErr := s.searchTranslated(ctx, query, page, result)
	if primaryErr == nil {
		result.Outcome = models.OutcomeTranslated
		s.record(result)
		return result
	}

	s.log.Warn("Translated search failed, using filter search", map[string]interface{}{
		"query": query,
		"error": primaryErr.Error(),
	})
	result.Listings = []models.Listing{}
	result.Total = 0
	result.GeneratedSQL = ""
	result.FallbackUsed = true

	filter := req.Filter
	if strings.TrimSpace(filter.Query) == "" {
		filter.Query = query
	}

	fallback, err := s.listings.SearchListings(ctx, SearchRequest{
		Filter: filter,
		Page:   page.Page,
		Limit:  page.Limit,
		Sort:   req.Sort,
	})
	if err != nil {
		s.log.Error("Fallback search failed", err, map[string]interface{}{
			"query": query,
		})
		msg := fmt.Sprintf("%s; fallback search failed: %s", publicError(primaryErr), publicError(err))
		result.Outcome = models.OutcomeEmpty
		result.Error = &msg
		s.record(result)
		return result
	}

	msg := publicError(primaryErr)
	result.Outcome = models.OutcomeFallback
	result.Error = &msg
	result.Listings = fallback.Listings
	result.Total = fallback.Total
	s.record(result)
	return result
}

// searchTranslated is the primary path: translate, vet, execute, hydrate.
// Any error sends the caller to the fallback path.
func (s *nlSearchService) searchTranslated(ctx context.Context, query string, page search.Pagination, result *models.NLSearchResult) error {
	if query == "" {
		return fmt.Errorf("%w: empty query", translator.ErrTranslationFailed)
	}
	if !s.Available() {
		return translator.ErrServiceUnavailable
	}

	raw, err := s.translator.TranslateToSQL(ctx, query)
	if err != nil {
		return err
	}

	sql, err := search.GuardStatement(raw)
	if err != nil {
		return err
	}

	ids, err := s.repo.ExecuteIDQuery(ctx, sql)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errNoTranslatedResults
	}

	window := pageWindow(ids, page)
	listings, err := s.repo.FindByIDs(ctx, window)
	if err != nil {
		return err
	}
	if len(window) > 0 && len(listings) == 0 {
		return errNoTranslatedResults
	}

	result.Listings = listings
	result.Total = len(ids)
	result.GeneratedSQL = sql
	return nil
}

// pageWindow returns the ids on the requested page, keeping their order.
func pageWindow(ids []string, page search.Pagination) []string {
	if page.Offset >= len(ids) {
		return []string{}
	}
	end := page.Offset + page.Limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[page.Offset:end]
}

func (s *nlSearchService) record(result *models.NLSearchResult) {
	metrics.NLSearchOutcomesTotal.WithLabelValues(string(result.Outcome)).Inc()
	s.log.Info("Natural-language search completed", map[string]interface{}{
		"outcome":  string(result.Outcome),
		"total":    result.Total,
		"returned": len(result.Listings),
	})
}

func (s *nlSearchService) Translate(ctx context.Context, query string) (string, error) {
	if !s.Available() {
		return "", translator.ErrServiceUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", translator.ErrTranslationFailed)
	}

	raw, err := s.translator.TranslateToSQL(ctx, query)
	if err != nil {
		return "", err
	}
	return search.GuardStatement(raw)
}

func (s *nlSearchService) Suggestions(ctx context.Context, partial string) []string {
	partial = strings.TrimSpace(partial)
	if len([]rune(partial)) < MinSuggestionInput {
		return []string{}
	}

	if s.Available() {
		suggestions, err := s.translator.Suggest(ctx, partial)
		if err == nil && len(suggestions) > 0 {
			if len(suggestions) > translator.MaxSuggestions {
				suggestions = suggestions[:translator.MaxSuggestions]
			}
			return suggestions
		}
		if err != nil {
			s.log.Warn("Suggestion request failed, using keyword suggestions", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return keywordSuggestions(partial)
}

// suggestionKeywords is the fixed vocabulary matched when the translation
// service cannot suggest.
var suggestionKeywords = []string{
	// property types
	"Detached House", "Semi-Detached House", "Townhouse", "Condo", "Apartment",
	"Duplex", "Bungalow", "Cottage", "Loft", "Penthouse",
	// cities
	"Toronto", "Vancouver", "Montreal", "Calgary", "Edmonton", "Ottawa",
	"Winnipeg", "Quebec City", "Hamilton", "Halifax", "Victoria", "Mississauga",
	// features
	"Pool", "Garage", "Fireplace", "Hardwood Floors", "Finished Basement",
	"Balcony", "Air Conditioning", "Gym", "Concierge", "Waterfront",
	"Garden", "Ensuite Laundry",
}

// keywordSuggestions matches partial against the fixed vocabulary,
// prefix matches first, then substring matches, each alphabetical.
func keywordSuggestions(partial string) []string {
	needle := strings.ToLower(partial)

	var prefix, contains []string
	for _, kw := range suggestionKeywords {
		lower := strings.ToLower(kw)
		switch {
		case strings.HasPrefix(lower, needle):
			prefix = append(prefix, kw)
		case strings.Contains(lower, needle):
			contains = append(contains, kw)
		}
	}
	sort.Strings(prefix)
	sort.Strings(contains)

	out := append(prefix, contains...)
	if len(out) > translator.MaxSuggestions {
		out = out[:translator.MaxSuggestions]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// publicError renders an error for the response body. Errors raised by
// this service's own stages are shown as is; anything from the database
// or network is reduced to a generic message.
func publicError(err error) string {
	var fve *FilterValidationError
	switch {
	case errors.Is(err, translator.ErrServiceUnavailable):
		return translator.ErrServiceUnavailable.Error()
	case errors.Is(err, translator.ErrTranslationFailed):
		return err.Error()
	case errors.Is(err, search.ErrUnsafeStatement):
		return "translated query was rejected: " + err.Error()
	case errors.Is(err, errNoTranslatedResults):
		return err.Error()
	case errors.As(err, &fve):
		return fve.Error()
	default:
		return "service unavailable"
	}
}
