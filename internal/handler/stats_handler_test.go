package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hallhub/reservation-service/internal/dto"
	"github.com/hallhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockStatsService struct {
	getFn func(ctx context.Context) (service.Stats, error)
}

func (m *mockStatsService) GetStats(ctx context.Context) (service.Stats, error) {
	return m.getFn(ctx)
}

func TestGetStats_Handler_Success(t *testing.T) {
	svc := &mockStatsService{
		getFn: func(ctx context.Context) (service.Stats, error) {
			return service.Stats{
				TotalHalls:        3,
				AvailableHalls:    2,
				TotalBookings:     10,
				TotalRevenue:      4500,
				AverageHourlyRate: 120,
				OccupancyRate:     45.5,
			}, nil
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewStatsHandler(svc)
	err := h.GetStats(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.StatsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalHalls)
	assert.Equal(t, 2, resp.AvailableHalls)
	assert.Equal(t, 4500.0, resp.TotalRevenue)
	assert.Equal(t, 45.5, resp.OccupancyRate)
}

func TestGetStats_Handler_StoreTimeout(t *testing.T) {
	svc := &mockStatsService{
		getFn: func(ctx context.Context) (service.Stats, error) {
			return service.Stats{}, service.ErrStoreTimeout
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewStatsHandler(svc)
	err := h.GetStats(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}
