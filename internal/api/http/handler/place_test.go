package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/places-server/internal/api/http/context"
	"github.com/dtroode/places-server/internal/api/http/response"
	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/mocks"
	"github.com/dtroode/places-server/internal/model"
	"github.com/dtroode/places-server/internal/testutil"
)

var (
	callerID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	placeID  = uuid.MustParse("550e8400-e29b-41d4-a716-446655440002")
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
)

func samplePlace() model.Place {
	return model.Place{
		ID:          placeID,
		Title:       "Empire State",
		Description: "A tall building",
		Address:     "350 5th Ave",
		Location:    model.Location{Lat: 40.75, Lng: -73.98},
		ImageKey:    "images/a.png",
		CreatorID:   callerID,
	}
}

// serve routes req through a chi router so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func withCaller(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(httpctx.NewManager().SetUserIDToContext(req.Context(), id))
}

func multipartRequest(t *testing.T, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "image.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newPlaceHandler(t *testing.T) (*Place, *mocks.PlaceService, *mocks.ImageUploader) {
	svc := mocks.NewPlaceService(t)
	uploader := mocks.NewImageUploader(t)
	return NewPlace(svc, uploader, httpctx.NewManager(), 1024, testutil.MakeNoopLogger()), svc, uploader
}

func TestPlace_GetPlaceByID(t *testing.T) {
	tests := []struct {
		name       string
		pid        string
		setup      func(svc *mocks.PlaceService)
		wantStatus int
	}{
		{
			name: "found",
			pid:  placeID.String(),
			setup: func(svc *mocks.PlaceService) {
				svc.On("GetPlaceByID", mock.Anything, placeID).Return(samplePlace(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			pid:  placeID.String(),
			setup: func(svc *mocks.PlaceService) {
				svc.On("GetPlaceByID", mock.Anything, placeID).Return(model.Place{}, apierror.NewErrPlaceNotFound(placeID))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			pid:        "not-a-uuid",
			setup:      func(*mocks.PlaceService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, _ := newPlaceHandler(t)
			tt.setup(svc)

			rec := serve(http.MethodGet, "/api/places/{pid}", h.GetPlaceByID,
				httptest.NewRequest(http.MethodGet, "/api/places/"+tt.pid, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var body placeResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, placeID, body.Place.ID)
				assert.Contains(t, rec.Body.String(), `"creator":"`+callerID.String()+`"`)
			}
		})
	}
}

func TestPlace_GetPlacesByUserID(t *testing.T) {
	h, svc, _ := newPlaceHandler(t)
	svc.On("GetPlacesByUserID", mock.Anything, callerID).Return([]model.Place{samplePlace()}, nil)

	rec := serve(http.MethodGet, "/api/places/user/{uid}", h.GetPlacesByUserID,
		httptest.NewRequest(http.MethodGet, "/api/places/user/"+callerID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body placesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Places, 1)
	assert.Equal(t, placeID, body.Places[0].ID)
}

func TestPlace_CreatePlace(t *testing.T) {
	validFields := map[string]string{
		"title":       "Empire State",
		"description": "A tall building",
		"address":     "350 5th Ave",
	}

	tests := []struct {
		name       string
		fields     map[string]string
		image      []byte
		anonymous  bool
		setup      func(svc *mocks.PlaceService, up *mocks.ImageUploader)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "created",
			fields: validFields,
			image:  pngBytes,
			setup: func(svc *mocks.PlaceService, up *mocks.ImageUploader) {
				up.On("Store", mock.Anything, mock.Anything).Return("images/a.png", nil)
				svc.On("Create", mock.Anything, model.CreatePlaceParams{
					Title:       "Empire State",
					Description: "A tall building",
					Address:     "350 5th Ave",
					CreatorID:   callerID,
					ImageKey:    "images/a.png",
				}).Return(samplePlace(), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "short description is rejected before upload",
			fields: map[string]string{
				"title":       "Empire State",
				"description": "tall",
				"address":     "350 5th Ave",
			},
			image:      pngBytes,
			setup:      func(*mocks.PlaceService, *mocks.ImageUploader) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation",
		},
		{
			name:       "missing image",
			fields:     validFields,
			setup:      func(*mocks.PlaceService, *mocks.ImageUploader) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation",
		},
		{
			name:       "anonymous caller",
			fields:     validFields,
			image:      pngBytes,
			anonymous:  true,
			setup:      func(*mocks.PlaceService, *mocks.ImageUploader) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthenticated",
		},
		{
			name:   "upload rejected",
			fields: validFields,
			image:  []byte("plain text"),
			setup: func(svc *mocks.PlaceService, up *mocks.ImageUploader) {
				up.On("Store", mock.Anything, mock.Anything).Return("", apierror.NewErrValidation("invalid mime type text/plain"))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "validation",
		},
		{
			name:   "geocoding failed",
			fields: validFields,
			image:  pngBytes,
			setup: func(svc *mocks.PlaceService, up *mocks.ImageUploader) {
				up.On("Store", mock.Anything, mock.Anything).Return("images/a.png", nil)
				svc.On("Create", mock.Anything, mock.Anything).
					Return(model.Place{}, apierror.NewErrGeocode("350 5th Ave", errors.New("zero results")))
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream",
		},
		{
			name:   "owner not found",
			fields: validFields,
			image:  pngBytes,
			setup: func(svc *mocks.PlaceService, up *mocks.ImageUploader) {
				up.On("Store", mock.Anything, mock.Anything).Return("images/a.png", nil)
				svc.On("Create", mock.Anything, mock.Anything).Return(model.Place{}, apierror.NewErrOwnerNotFound(callerID))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, up := newPlaceHandler(t)
			tt.setup(svc, up)

			req := multipartRequest(t, "/api/places", tt.fields, tt.image)
			if !tt.anonymous {
				req = withCaller(req, callerID)
			}
			rec := serve(http.MethodPost, "/api/places", h.CreatePlace, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}
			var body placeResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, placeID, body.Place.ID)
		})
	}
}

func TestPlace_CreatePlace_ValidationMessageNamesFields(t *testing.T) {
	h, _, _ := newPlaceHandler(t)

	req := withCaller(multipartRequest(t, "/api/places", map[string]string{"description": "tall"}, pngBytes), callerID)
	rec := serve(http.MethodPost, "/api/places", h.CreatePlace, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	msg := decodeError(t, rec).Message
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "description must be at least 5 characters long")
	assert.Contains(t, msg, "address is required")
}

func TestPlace_UpdatePlace(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.PlaceService)
		wantStatus int
	}{
		{
			name: "updated",
			body: `{"title":"Empire State Building","description":"Still tall","creator":"someone-else"}`,
			setup: func(svc *mocks.PlaceService) {
				svc.On("Update", mock.Anything, model.UpdatePlaceParams{
					PlaceID:     placeID,
					CallerID:    callerID,
					Title:       "Empire State Building",
					Description: "Still tall",
				}).Return(samplePlace(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"title":`,
			setup:      func(*mocks.PlaceService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing title",
			body:       `{"description":"Still tall"}`,
			setup:      func(*mocks.PlaceService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "denied",
			body: `{"title":"Mine now","description":"Not really"}`,
			setup: func(svc *mocks.PlaceService) {
				svc.On("Update", mock.Anything, mock.Anything).Return(model.Place{}, apierror.NewErrDenied(placeID))
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, _ := newPlaceHandler(t)
			tt.setup(svc)

			req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/places/"+placeID.String(), strings.NewReader(tt.body)), callerID)
			rec := serve(http.MethodPatch, "/api/places/{pid}", h.UpdatePlace, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPlace_DeletePlace(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusOK},
		{name: "not found", serviceErr: apierror.NewErrPlaceNotFound(placeID), wantStatus: http.StatusNotFound},
		{name: "denied", serviceErr: apierror.NewErrDenied(placeID), wantStatus: http.StatusForbidden},
		{name: "conflict", serviceErr: apierror.NewErrConflict("deleting place", errors.New("40001")), wantStatus: http.StatusConflict},
		{name: "persistence", serviceErr: apierror.NewErrPersistence("deleting place", errors.New("down")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, _ := newPlaceHandler(t)
			svc.On("Delete", mock.Anything, placeID, callerID).Return(tt.serviceErr)

			req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/places/"+placeID.String(), nil), callerID)
			rec := serve(http.MethodDelete, "/api/places/{pid}", h.DeletePlace, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.serviceErr == nil {
				assert.JSONEq(t, `{"message":"Deleted place."}`, rec.Body.String())
			}
		})
	}
}

func TestPlace_DeletePlace_UsesRequestContext(t *testing.T) {
	h, svc, _ := newPlaceHandler(t)
	svc.On("Delete", mock.MatchedBy(func(ctx context.Context) bool {
		id, ok := httpctx.NewManager().GetUserIDFromContext(ctx)
		return ok && id == callerID
	}), placeID, callerID).Return(nil)

	req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/places/"+placeID.String(), nil), callerID)
	rec := serve(http.MethodDelete, "/api/places/{pid}", h.DeletePlace, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
