package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/hearth/internal/logger"
	"github.com/stwalsh4118/hearth/internal/middleware"
	"github.com/stwalsh4118/hearth/internal/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)

	c.Set(middleware.LoggerKey, logger.Nop())
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func detailsMap(t *testing.T, details interface{}) map[string]interface{} {
	m, ok := details.(map[string]interface{})
	require.True(t, ok, "Expected details to be an object, got %T", details)
	return m
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Listing not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.False(t, response.Success)
	assert.Equal(t, ErrNotFound, response.Error)
	assert.Equal(t, "Listing not found", response.Message)
	assert.Equal(t, "test-request-id", response.RequestID)
	assert.Nil(t, response.Details)
}

func TestBadRequest(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error)
		assert.Equal(t, "Invalid input", response.Message)
		assert.Nil(t, response.Details)
		assert.NotContains(t, w.Body.String(), "details")
	})

	t.Run("with details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid query parameter", map[string]interface{}{
			"field": "bedrooms",
			"value": "lots",
		})

		response := parseErrorResponse(t, w.Body)
		details := detailsMap(t, response.Details)
		assert.Equal(t, "bedrooms", details["field"])
		assert.Equal(t, "lots", details["value"])
	})
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "Failed to search listings", errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error)
	assert.Equal(t, "Failed to search listings", response.Message)
	assert.NotContains(t, w.Body.String(), "connection refused", "cause must not leak to the client")
}

func TestServiceUnavailable(t *testing.T) {
	c, w := setupTestContext()

	ServiceUnavailable(c, "Natural language search is unavailable", errors.New("dial tcp: refused"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrServiceUnavailable, response.Error)
	assert.Equal(t, "Natural language search is unavailable", response.Message)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	type searchBody struct {
		Page  int `validate:"gte=1"`
		Limit int `validate:"lte=100"`
	}

	err := validator.New().Struct(searchBody{Page: 0, Limit: 500})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error)
	assert.Equal(t, "Validation failed for one or more fields", response.Message)

	details := detailsMap(t, response.Details)
	assert.Equal(t, "Must be greater than or equal to 1", details["Page"])
	assert.Equal(t, "Must be less than or equal to 100", details["Limit"])
}

func TestFilterValidationError(t *testing.T) {
	c, w := setupTestContext()

	FilterValidationError(c, []search.FieldError{
		{Field: "min_price", Message: "must be greater than or equal to 0"},
		{Field: "price", Message: "min_price cannot be greater than max_price"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Success bool                `json:"success"`
		Error   string              `json:"error"`
		Message string              `json:"message"`
		Details []search.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, ErrValidation, response.Error)
	assert.Equal(t, "Invalid search filter", response.Message)
	require.Len(t, response.Details, 2)
	assert.Equal(t, "min_price", response.Details[0].Field)
	assert.Equal(t, "price", response.Details[1].Field)
}

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		param    string
		expected string
	}{
		{name: "required", tag: "required", expected: "This field is required"},
		{name: "min", tag: "min", param: "1", expected: "Value is too short or small (minimum: 1)"},
		{name: "max", tag: "max", param: "100", expected: "Value is too long or large (maximum: 100)"},
		{name: "gt", tag: "gt", param: "0", expected: "Must be greater than 0"},
		{name: "gte", tag: "gte", param: "1", expected: "Must be greater than or equal to 1"},
		{name: "lt", tag: "lt", param: "100", expected: "Must be less than 100"},
		{name: "lte", tag: "lte", param: "100", expected: "Must be less than or equal to 100"},
		{name: "oneof", tag: "oneof", param: "asc desc", expected: "Must be one of: asc desc"},
		{name: "uuid", tag: "uuid", expected: "Must be a valid UUID"},
		{name: "unknown", tag: "unknown_tag", expected: "Validation failed for tag: unknown_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockErr := &mockFieldError{tag: tt.tag, param: tt.param}
			assert.Equal(t, tt.expected, formatValidationError(mockErr))
		})
	}
}

func TestErrorResponseWithoutContext(t *testing.T) {
	// No logger or request ID in context
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	NotFound(c, "Resource not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error)
	assert.Equal(t, "Resource not found", response.Message)
	assert.Empty(t, response.RequestID)
	assert.NotContains(t, w.Body.String(), "request_id")
}

func TestErrorConstants(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrNotFound)
	assert.Equal(t, "BAD_REQUEST", ErrBadRequest)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", ErrInternalServer)
	assert.Equal(t, "VALIDATION_ERROR", ErrValidation)
	assert.Equal(t, "SERVICE_UNAVAILABLE", ErrServiceUnavailable)
}

// mockFieldError is a mock implementation of validator.FieldError for testing.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "TestField" }
func (m *mockFieldError) StructField() string            { return "TestField" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.String }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
