package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/hearth/internal/errors"
	"github.com/stwalsh4118/hearth/internal/middleware"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/services"
)

// ListingHandler handles listing search and detail requests.
type ListingHandler struct {
	service services.ListingService
}

// NewListingHandler creates a new ListingHandler instance.
func NewListingHandler(service services.ListingService) *ListingHandler {
	return &ListingHandler{
		service: service,
	}
}

// ListingQuery holds the raw query parameters of GET /listings. Numeric
// values are parsed by hand so "3+" style minimums can be accepted.
type ListingQuery struct {
	Query         string   `form:"query"`
	Q             string   `form:"q"`
	PropertyType  string   `form:"property_type"`
	ListingType   string   `form:"listing_type"`
	MinPrice      string   `form:"min_price"`
	MaxPrice      string   `form:"max_price"`
	Bedrooms      string   `form:"bedrooms"`
	Bathrooms     string   `form:"bathrooms"`
	City          string   `form:"city"`
	Province      string   `form:"province"`
	MinSqft       string   `form:"min_sqft"`
	MaxSqft       string   `form:"max_sqft"`
	ParkingSpaces string   `form:"parking_spaces"`
	PetFriendly   string   `form:"pet_friendly"`
	Furnished     string   `form:"furnished"`
	Features      []string `form:"features"`
	Page          string   `form:"page"`
	Limit         string   `form:"limit"`
	SortBy        string   `form:"sort_by"`
	SortOrder     string   `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// SearchBody is the JSON body of POST /listings/search. The filter fields
// sit at the top level next to the paging fields.
type SearchBody struct {
	models.ListingFilter
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// paramError reports a query parameter that could not be parsed.
type paramError struct {
	field string
	value string
}

func (e *paramError) Error() string {
	return "invalid value for " + e.field
}

// List handles GET /api/v1/listings.
func (h *ListingHandler) List(c *gin.Context) {
	var q ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handleBindError(c, err, "Invalid query parameters")
		return
	}

	req, err := q.toSearchRequest()
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) {
			apierrors.BadRequest(c, "Invalid query parameter", map[string]interface{}{
				"field": pe.field,
				"value": pe.value,
			})
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	h.search(c, req)
}

// Search handles POST /api/v1/listings/search.
func (h *ListingHandler) Search(c *gin.Context) {
	var body SearchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		handleBindError(c, err, "Invalid request body")
		return
	}

	h.search(c, services.SearchRequest{
		Filter: body.ListingFilter,
		Page:   body.Page,
		Limit:  body.Limit,
		Sort:   models.Sort{Field: body.SortBy, Direction: body.SortOrder},
	})
}

func (h *ListingHandler) search(c *gin.Context, req services.SearchRequest) {
	result, err := h.service.SearchListings(c.Request.Context(), req)
	if err != nil {
		var fve *services.FilterValidationError
		if errors.As(err, &fve) {
			apierrors.FilterValidationError(c, fve.Errors)
			return
		}
		apierrors.InternalServerError(c, "Failed to search listings", err)
		return
	}

	respondOK(c, result)
}

// Get handles GET /api/v1/listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id := c.Param("id")

	listing, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrInvalidListingID) {
			apierrors.BadRequest(c, "Listing id must be a UUID", map[string]interface{}{"id": id})
			return
		}
		if errors.Is(err, services.ErrListingNotFound) {
			apierrors.NotFound(c, "Listing not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load listing", err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Listing loaded", map[string]interface{}{"listing_id": listing.ID})
	}

	respondOK(c, listing)
}

func (q ListingQuery) toSearchRequest() (services.SearchRequest, error) {
	var (
		req services.SearchRequest
		err error
	)
	f := &req.Filter

	f.Query = strings.TrimSpace(q.Query)
	if f.Query == "" {
		f.Query = strings.TrimSpace(q.Q)
	}
	f.PropertyType = strings.TrimSpace(q.PropertyType)
	f.ListingType = strings.TrimSpace(q.ListingType)
	f.City = strings.TrimSpace(q.City)
	f.Province = strings.TrimSpace(q.Province)
	f.Features = splitList(q.Features)

	if f.MinPrice, err = parseFloat("min_price", q.MinPrice, false); err != nil {
		return req, err
	}
	if f.MaxPrice, err = parseFloat("max_price", q.MaxPrice, false); err != nil {
		return req, err
	}
	if f.Bedrooms, err = parseInt("bedrooms", q.Bedrooms, true); err != nil {
		return req, err
	}
	if f.Bathrooms, err = parseFloat("bathrooms", q.Bathrooms, true); err != nil {
		return req, err
	}
	if f.MinSqft, err = parseInt("min_sqft", q.MinSqft, false); err != nil {
		return req, err
	}
	if f.MaxSqft, err = parseInt("max_sqft", q.MaxSqft, false); err != nil {
		return req, err
	}
	if f.ParkingSpaces, err = parseInt("parking_spaces", q.ParkingSpaces, true); err != nil {
		return req, err
	}
	if f.PetFriendly, err = parseBool("pet_friendly", q.PetFriendly); err != nil {
		return req, err
	}
	if f.Furnished, err = parseBool("furnished", q.Furnished); err != nil {
		return req, err
	}

	page, err := parseInt("page", q.Page, false)
	if err != nil {
		return req, err
	}
	if page != nil {
		req.Page = *page
	}
	limit, err := parseInt("limit", q.Limit, false)
	if err != nil {
		return req, err
	}
	if limit != nil {
		req.Limit = *limit
	}

	req.Sort = models.Sort{Field: q.SortBy, Direction: q.SortOrder}
	return req, nil
}

// parseInt parses an optional integer parameter. With atLeast set, a
// trailing "+" ("3+") is accepted and means the same as "3". An unescaped
// "+" arrives as a space and is trimmed either way.
func parseInt(field, raw string, atLeast bool) (*int, error) {
	s := trimParam(raw, atLeast)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &paramError{field: field, value: raw}
	}
	return &n, nil
}

func parseFloat(field, raw string, atLeast bool) (*float64, error) {
	s := trimParam(raw, atLeast)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &paramError{field: field, value: raw}
	}
	return &n, nil
}

func parseBool(field, raw string) (*bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, &paramError{field: field, value: raw}
	}
	return &b, nil
}

func trimParam(raw string, atLeast bool) string {
	s := strings.TrimSpace(raw)
	if atLeast {
		s = strings.TrimSuffix(s, "+")
	}
	return s
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// handleBindError renders field errors for validator failures and a plain
// 400 for anything else, such as malformed JSON.
func handleBindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, message, nil)
}
