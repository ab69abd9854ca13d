package places

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func postPlaces(h *HandlerImpl, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/places/recommendations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.RecommendationsHandler(rr, req)
	return rr
}

func TestRecommendationsHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Complete", mock.Anything, mock.Anything).Return(attractionsJSON, nil)
		h := NewHandler(NewServiceImpl(gw, time.Minute, time.Minute, testLogger()), testLogger())

		rr := postPlaces(h, `{"destination":"Lisbon"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"places":[`)
		assert.Contains(t, rr.Body.String(), `"name":"Belém Tower"`)
	})

	t.Run("empty destination", func(t *testing.T) {
		h := NewHandler(NewServiceImpl(new(MockGateway), time.Minute, time.Minute, testLogger()), testLogger())
		rr := postPlaces(h, `{"destination":""}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unparseable answer is 502", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Complete", mock.Anything, mock.Anything).Return("no json here", nil)
		h := NewHandler(NewServiceImpl(gw, time.Minute, time.Minute, testLogger()), testLogger())

		rr := postPlaces(h, `{"destination":"Lisbon"}`)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "failed to parse attractions data")
	})

	t.Run("missing credential is 503", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Complete", mock.Anything, mock.Anything).Return("", &types.ConfigurationError{Setting: "TOGETHER_API_KEY"})
		h := NewHandler(NewServiceImpl(gw, time.Minute, time.Minute, testLogger()), testLogger())

		rr := postPlaces(h, `{"destination":"Lisbon"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
