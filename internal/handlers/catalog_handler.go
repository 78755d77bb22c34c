package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/hearth/internal/errors"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/services"
)

// CatalogHandler serves the lookup tables used to build search filters.
type CatalogHandler struct {
	service services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(service services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// CitiesResponse is the body of GET /provinces/:code/cities.
type CitiesResponse struct {
	Province *models.Province `json:"province"`
	Cities   []models.City    `json:"cities"`
}

// Provinces handles GET /api/v1/provinces.
func (h *CatalogHandler) Provinces(c *gin.Context) {
	provinces, err := h.service.ListProvinces(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list provinces", err)
		return
	}
	respondOK(c, provinces)
}

// Cities handles GET /api/v1/provinces/:code/cities. The parameter may be a
// province code or name.
func (h *CatalogHandler) Cities(c *gin.Context) {
	province, cities, err := h.service.ListCities(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrProvinceNotFound) {
			apierrors.NotFound(c, "Province not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to list cities", err)
		return
	}
	respondOK(c, CitiesResponse{Province: province, Cities: cities})
}

// PropertyTypes handles GET /api/v1/property-types.
func (h *CatalogHandler) PropertyTypes(c *gin.Context) {
	types, err := h.service.ListPropertyTypes(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list property types", err)
		return
	}
	respondOK(c, types)
}

// ListingTypes handles GET /api/v1/listing-types.
func (h *CatalogHandler) ListingTypes(c *gin.Context) {
	types, err := h.service.ListListingTypes(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list listing types", err)
		return
	}
	respondOK(c, types)
}

// Features handles GET /api/v1/features.
func (h *CatalogHandler) Features(c *gin.Context) {
	features, err := h.service.ListFeatures(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list features", err)
		return
	}
	respondOK(c, features)
}
