package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/testutil"
)

func TestError(t *testing.T) {
	placeID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantRetry  bool
	}{
		{"not found", apierror.NewErrPlaceNotFound(placeID), http.StatusNotFound, "not_found", false},
		{"denied", apierror.NewErrDenied(placeID), http.StatusForbidden, "denied", false},
		{"validation", apierror.NewErrValidation("bad"), http.StatusUnprocessableEntity, "validation", false},
		{"upstream", apierror.NewErrGeocode("nowhere", errors.New("x")), http.StatusBadGateway, "upstream", false},
		{"persistence", apierror.NewErrPersistence("creating place", errors.New("x")), http.StatusInternalServerError, "persistence", false},
		{"conflict", apierror.NewErrConflict("creating place", errors.New("x")), http.StatusConflict, "conflict", true},
		{"unauthenticated", apierror.NewErrInvalidCredentials(), http.StatusUnauthorized, "unauthenticated", false},
		{"already exists", apierror.NewErrEmailIsTaken("a@b.c"), http.StatusConflict, "already_exists", false},
		{"wrapped api error", fmt.Errorf("outer: %w", apierror.NewErrDenied(placeID)), http.StatusForbidden, "denied", false},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "persistence", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			Error(rec, tt.err, testutil.MakeNoopLogger())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After") != "")
		})
	}
}

func TestError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, errors.New("pq: password authentication failed"), testutil.MakeNoopLogger())

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
}

func TestStatus_UnknownKind(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(apierror.Kind("other")))
}
