package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

func TestStatusOf(t *testing.T) {
	cases := map[services.Kind]int{
		services.KindValidation:   http.StatusBadRequest,
		services.KindConflict:     http.StatusBadRequest,
		services.KindNotFound:     http.StatusNotFound,
		services.KindUnauthorized: http.StatusUnauthorized,
		services.KindForbidden:    http.StatusForbidden,
		services.KindInternal:     http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, StatusOf(k), k.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteServiceError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	rec := httptest.NewRecorder()
	WriteServiceError(rec, req, services.NotFound("Annonce non trouvée"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, APIError{Message: "Annonce non trouvée"}, decodeError(t, rec))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	WriteServiceError(rec, req, services.Internal("Erreur lors de la création", errors.New("db down")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, APIError{Message: "Erreur lors de la création", Error: "db down"}, decodeError(t, rec))

	rec = httptest.NewRecorder()
	WriteServiceError(rec, req, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erreur interne du serveur", decodeError(t, rec).Message)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "a@b.co", v.Email)

	req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.NoError(t, DecodeJSON(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	err := DecodeJSON(req, &v)
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}
