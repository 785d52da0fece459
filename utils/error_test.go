package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"podstudio/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	tests := map[models.ErrorKind]int{
		models.KindValidation:             http.StatusBadRequest,
		models.KindReferenceNotFound:      http.StatusUnprocessableEntity,
		models.KindReservationNotFound:    http.StatusNotFound,
		models.KindInvalidStateTransition: http.StatusConflict,
		models.KindSlotNoLongerAvailable:  http.StatusConflict,
		models.KindConfiguration:          http.StatusInternalServerError,
		models.KindUnknown:                http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, StatusForKind(kind), kind)
	}
}

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondError(c, err)
	return w
}

func TestRespondErrorExposesClientErrors(t *testing.T) {
	w := respond(fmt.Errorf("confirm: %w", models.NewSlotNoLongerAvailable("window taken")))
	require.Equal(t, http.StatusConflict, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "window taken", body.Message)
	assert.Equal(t, "SlotNoLongerAvailable", body.Kind)
}

func TestRespondErrorHidesInternalCauses(t *testing.T) {
	w := respond(models.WrapUnknown(errors.New("mongo: secret host unreachable"), "load reservation"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret host")

	w = respond(errors.New("plain failure"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestJSONError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSONError(c, http.StatusBadRequest, "limit must be a non-negative integer", "-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "limit must be a non-negative integer", body.Message)
	assert.Equal(t, "-1", body.Details)
	assert.Empty(t, body.Kind)
}
