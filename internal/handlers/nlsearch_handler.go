package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/hearth/internal/errors"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/search"
	"github.com/stwalsh4118/hearth/internal/services"
	"github.com/stwalsh4118/hearth/internal/translator"
)

// NLSearchHandler handles natural-language search requests.
type NLSearchHandler struct {
	service services.NLSearchService
}

// NewNLSearchHandler creates a new NLSearchHandler instance.
func NewNLSearchHandler(service services.NLSearchService) *NLSearchHandler {
	return &NLSearchHandler{
		service: service,
	}
}

// NLSearchQuery holds the query parameters of GET /nl-search.
type NLSearchQuery struct {
	Query     string `form:"q" binding:"max=500"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// NLSearchBody is the JSON body of POST /nl-search. Filters only apply if
// the search falls back to the filter path.
type NLSearchBody struct {
	Query     string               `json:"query" binding:"max=500"`
	Filters   models.ListingFilter `json:"filters"`
	Page      int                  `json:"page"`
	Limit     int                  `json:"limit"`
	SortBy    string               `json:"sort_by"`
	SortOrder string               `json:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// TranslateBody is the JSON body of POST /nl-search/translate.
type TranslateBody struct {
	Query string `json:"query" binding:"required,max=500"`
}

// TranslateResponse carries SQL that passed the statement guard.
type TranslateResponse struct {
	Query string `json:"query"`
	SQL   string `json:"sql"`
}

// SuggestionsResponse is the body of GET /nl-search/suggestions.
type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// StatusResponse is the body of GET /nl-search/status.
type StatusResponse struct {
	Available bool `json:"available"`
}

// SearchGet handles GET /api/v1/nl-search?q=...
func (h *NLSearchHandler) SearchGet(c *gin.Context) {
	var q NLSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handleBindError(c, err, "Invalid query parameters")
		return
	}
	if q.Query == "" {
		q.Query = c.Query("query")
	}

	h.search(c, services.NLSearchRequest{
		Query: q.Query,
		Page:  q.Page,
		Limit: q.Limit,
		Sort:  models.Sort{Field: q.SortBy, Direction: q.SortOrder},
	})
}

// SearchPost handles POST /api/v1/nl-search.
func (h *NLSearchHandler) SearchPost(c *gin.Context) {
	var body NLSearchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		handleBindError(c, err, "Invalid request body")
		return
	}

	h.search(c, services.NLSearchRequest{
		Query:  body.Query,
		Filter: body.Filters,
		Page:   body.Page,
		Limit:  body.Limit,
		Sort:   models.Sort{Field: body.SortBy, Direction: body.SortOrder},
	})
}

func (h *NLSearchHandler) search(c *gin.Context, req services.NLSearchRequest) {
	if strings.TrimSpace(req.Query) == "" {
		apierrors.BadRequest(c, "Query is required", map[string]interface{}{"field": "query"})
		return
	}

	// Search absorbs every failure into the result.
	respondOK(c, h.service.Search(c.Request.Context(), req))
}

// Suggestions handles GET /api/v1/nl-search/suggestions?q=...
func (h *NLSearchHandler) Suggestions(c *gin.Context) {
	partial := c.Query("q")
	respondOK(c, SuggestionsResponse{
		Query:       partial,
		Suggestions: h.service.Suggestions(c.Request.Context(), partial),
	})
}

// Status handles GET /api/v1/nl-search/status.
func (h *NLSearchHandler) Status(c *gin.Context) {
	respondOK(c, StatusResponse{Available: h.service.Available()})
}

// Translate handles POST /api/v1/nl-search/translate. It returns the
// vetted SQL without executing it.
func (h *NLSearchHandler) Translate(c *gin.Context) {
	var body TranslateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		handleBindError(c, err, "Invalid request body")
		return
	}

	sql, err := h.service.Translate(c.Request.Context(), body.Query)
	if err != nil {
		switch {
		case errors.Is(err, translator.ErrServiceUnavailable):
			apierrors.ServiceUnavailable(c, "Natural language search is unavailable", err)
		case errors.Is(err, translator.ErrTranslationFailed):
			apierrors.BadRequest(c, "Query could not be translated", nil)
		case errors.Is(err, search.ErrUnsafeStatement):
			apierrors.BadRequest(c, "Generated query was rejected", nil)
		default:
			apierrors.InternalServerError(c, "Failed to translate query", err)
		}
		return
	}

	respondOK(c, TranslateResponse{Query: body.Query, SQL: sql})
}
