package handler

import (
	"net/http"

	"github.com/hallhub/reservation-service/internal/dto"
	"github.com/hallhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/stats", h.GetStats)
}

func (h *StatsHandler) GetStats(c echo.Context) error {
	stats, err := h.svc.GetStats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.StatsResponse{
		TotalHalls:        stats.TotalHalls,
		AvailableHalls:    stats.AvailableHalls,
		TotalBookings:     stats.TotalBookings,
		TotalRevenue:      stats.TotalRevenue,
		AverageHourlyRate: stats.AverageHourlyRate,
		OccupancyRate:     stats.OccupancyRate,
	})
}
