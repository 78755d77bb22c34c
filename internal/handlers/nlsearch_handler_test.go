package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apierrors "github.com/stwalsh4118/hearth/internal/errors"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/search"
	"github.com/stwalsh4118/hearth/internal/services"
	"github.com/stwalsh4118/hearth/internal/translator"
)

func setupNLSearchRouter(svc services.NLSearchService) *gin.Engine {
	handler := NewNLSearchHandler(svc)
	router := newTestRouter()
	nl := router.Group("/api/v1/nl-search")
	{
		nl.GET("", handler.SearchGet)
		nl.POST("", handler.SearchPost)
		nl.GET("/suggestions", handler.Suggestions)
		nl.GET("/status", handler.Status)
		nl.POST("/translate", handler.Translate)
	}
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestNLSearchHandler_SearchGet(t *testing.T) {
	errMsg := "translation service unavailable"
	result := &models.NLSearchResult{
		Query:        "condos in toronto",
		Listings:     []models.Listing{{ID: "a", Title: "Condo"}},
		Total:        1,
		Page:         1,
		Limit:        20,
		Outcome:      models.OutcomeFallback,
		FallbackUsed: true,
		Error:        &errMsg,
	}

	svc := new(MockNLSearchService)
	svc.On("Search", mock.Anything, services.NLSearchRequest{
		Query: "condos in toronto",
		Page:  1,
		Limit: 20,
	}).Return(result)

	router := setupNLSearchRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nl-search?q=condos+in+toronto&page=1&limit=20", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.NLSearchResult
	decodeData(t, w, &got)
	assert.True(t, got.FallbackUsed)
	assert.Equal(t, models.OutcomeFallback, got.Outcome)
	require.NotNil(t, got.Error)
	assert.Equal(t, errMsg, *got.Error)
	svc.AssertExpectations(t)
}

func TestNLSearchHandler_SearchPost_PassesFilters(t *testing.T) {
	svc := new(MockNLSearchService)
	svc.On("Search", mock.Anything, mock.MatchedBy(func(req services.NLSearchRequest) bool {
		return req.Query == "family home near parks" &&
			req.Filter.City == "Ottawa" &&
			req.Filter.Bedrooms != nil && *req.Filter.Bedrooms == 3 &&
			req.Sort.Field == "price" && req.Sort.Direction == "desc"
	})).Return(&models.NLSearchResult{Listings: []models.Listing{}, Outcome: models.OutcomeTranslated})

	router := setupNLSearchRouter(svc)
	w := postJSON(router, "/api/v1/nl-search",
		`{"query":"family home near parks","filters":{"city":"Ottawa","bedrooms":3},"sort_by":"price","sort_order":"desc"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestNLSearchHandler_EmptyQuery(t *testing.T) {
	svc := new(MockNLSearchService)
	router := setupNLSearchRouter(svc)

	t.Run("GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nl-search?q=+++", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrBadRequest, decodeError(t, w).Error)
	})

	t.Run("POST", func(t *testing.T) {
		w := postJSON(router, "/api/v1/nl-search", `{"query":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestNLSearchHandler_QueryTooLong(t *testing.T) {
	svc := new(MockNLSearchService)
	router := setupNLSearchRouter(svc)

	w := postJSON(router, "/api/v1/nl-search", fmt.Sprintf(`{"query":%q}`, strings.Repeat("a", 501)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrValidation, decodeError(t, w).Error)
}

func TestNLSearchHandler_Suggestions(t *testing.T) {
	svc := new(MockNLSearchService)
	svc.On("Suggestions", mock.Anything, "con").Return([]string{"Concierge", "Condo"})

	router := setupNLSearchRouter(svc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nl-search/suggestions?q=con", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got SuggestionsResponse
	decodeData(t, w, &got)
	assert.Equal(t, "con", got.Query)
	assert.Equal(t, []string{"Concierge", "Condo"}, got.Suggestions)
}

func TestNLSearchHandler_Status(t *testing.T) {
	for _, available := range []bool{true, false} {
		t.Run(fmt.Sprint(available), func(t *testing.T) {
			svc := new(MockNLSearchService)
			svc.On("Available").Return(available)

			router := setupNLSearchRouter(svc)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nl-search/status", nil))

			var got StatusResponse
			decodeData(t, w, &got)
			assert.Equal(t, available, got.Available)
		})
	}
}

func TestNLSearchHandler_Translate(t *testing.T) {
	tests := []struct {
		name       string
		sql        string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "success", sql: "SELECT id FROM properties", wantStatus: http.StatusOK},
		{name: "unavailable", err: translator.ErrServiceUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: apierrors.ErrServiceUnavailable},
		{name: "declined", err: fmt.Errorf("%w: not a search", translator.ErrTranslationFailed), wantStatus: http.StatusBadRequest, wantCode: apierrors.ErrBadRequest},
		{name: "unsafe", err: fmt.Errorf("%w: keyword \"DELETE\" is not allowed", search.ErrUnsafeStatement), wantStatus: http.StatusBadRequest, wantCode: apierrors.ErrBadRequest},
		{name: "unexpected", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantCode: apierrors.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockNLSearchService)
			svc.On("Translate", mock.Anything, "3 bedroom condos").Return(tt.sql, tt.err)

			router := setupNLSearchRouter(svc)
			w := postJSON(router, "/api/v1/nl-search/translate", `{"query":"3 bedroom condos"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tt.wantCode, resp.Error)
				assert.NotContains(t, resp.Message, "DELETE")
				return
			}

			var got TranslateResponse
			decodeData(t, w, &got)
			assert.Equal(t, tt.sql, got.SQL)
		})
	}
}

func TestNLSearchHandler_Translate_MissingQuery(t *testing.T) {
	svc := new(MockNLSearchService)
	router := setupNLSearchRouter(svc)

	w := postJSON(router, "/api/v1/nl-search/translate", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrValidation, decodeError(t, w).Error)
}
