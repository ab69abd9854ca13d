package planner

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func newRequest(method, body string, userID uuid.UUID, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, "/", bytes.NewBufferString(body))
	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = auth.WithUserID(ctx, userID.String())
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestCategoryRecommendationsHandler(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		h := NewHandler(f.service, testLogger())
		rr := httptest.NewRecorder()
		h.CategoryRecommendationsHandler(rr, newRequest(http.MethodGet, "", f.userID,
			map[string]string{"tripID": f.trip.ID.String(), "category": "nightlife"}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, f.gateway.calls)
	})

	t.Run("ok", func(t *testing.T) {
		f := newFixture(t)
		f.expectTrip()
		f.gateway.answers["places to eat"] = "- Ramiro: Seafood"
		h := NewHandler(f.service, testLogger())
		rr := httptest.NewRecorder()
		h.CategoryRecommendationsHandler(rr, newRequest(http.MethodGet, "", f.userID,
			map[string]string{"tripID": f.trip.ID.String(), "category": "food"}))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"recommendations":[{"type":"food","title":"Ramiro","description":"Seafood"}]}`, rr.Body.String())
	})
}

func TestRecommendationsHandler_GenerationErrorIs502(t *testing.T) {
	f := newFixture(t)
	f.expectTrip()
	h := NewHandler(f.service, testLogger())

	rr := httptest.NewRecorder()
	h.RecommendationsHandler(rr, newRequest(http.MethodGet, "", f.userID, map[string]string{"tripID": f.trip.ID.String()}))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRecommendationsHandler_BadTripID(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.service, testLogger())

	rr := httptest.NewRecorder()
	h.RecommendationsHandler(rr, newRequest(http.MethodGet, "", f.userID, map[string]string{"tripID": "nope"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetItineraryHandler_NotFound(t *testing.T) {
	f := newFixture(t)
	f.expectTrip()
	f.repo.On("GetItinerary", mock.Anything, f.trip.ID).Return(nil, api.ErrNotFound)
	h := NewHandler(f.service, testLogger())

	rr := httptest.NewRecorder()
	h.GetItineraryHandler(rr, newRequest(http.MethodGet, "", f.userID, map[string]string{"tripID": f.trip.ID.String()}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateTripWithItineraryHandler(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)
		h := NewHandler(f.service, testLogger())
		rr := httptest.NewRecorder()
		h.CreateTripWithItineraryHandler(rr, newRequest(http.MethodPost, `{"title":"Rome"}`, uuid.Nil, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("batch failure is 500 with count", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.answers["day-by-day itinerary"] = itineraryJSON
		f.trips.On("CreateTrip", mock.Anything, f.userID, mock.Anything).Return(&f.trip, nil)
		f.repo.On("SaveItinerary", mock.Anything, f.trip.ID, mock.Anything).Return(nil)
		f.items.On("InsertBatch", mock.Anything, f.trip.ID, mock.Anything).
			Return(nil, &types.BatchInsertError{Count: 2, Err: assert.AnError})
		h := NewHandler(f.service, testLogger())

		rr := httptest.NewRecorder()
		h.CreateTripWithItineraryHandler(rr, newRequest(http.MethodPost, `{"title":"Rome"}`, f.userID, nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to save 2 trip items")
	})
}
