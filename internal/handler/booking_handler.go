package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hallhub/reservation-service/internal/dto"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

// HeaderIdempotencyKey lets callers retry booking creation safely after a
// timeout without risking a duplicate.
const HeaderIdempotencyKey = "Idempotency-Key"

type BookingHandler struct {
	svc         service.BookingService
	lifecycle   service.LifecycleService
	attachments service.AttachmentService
}

func NewBookingHandler(svc service.BookingService, lifecycle service.LifecycleService, attachments service.AttachmentService) *BookingHandler {
	return &BookingHandler{svc: svc, lifecycle: lifecycle, attachments: attachments}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	halls := e.Group("/api/v1/halls")
	halls.POST("/:id/bookings", h.RequestBooking)
	halls.GET("/:id/bookings", h.ListBookings)

	bookings := e.Group("/api/v1/bookings")
	bookings.GET("/:id", h.GetBooking)
	bookings.DELETE("/:id", h.DeleteBooking)
	bookings.PUT("/:id/schedule", h.Reschedule)
	bookings.PUT("/:id/status", h.TransitionStatus)
	bookings.PUT("/:id/payment", h.TransitionPayment)
	bookings.POST("/:id/equipment", h.AddEquipment)
	bookings.DELETE("/:id/equipment/:index", h.RemoveEquipment)
}

func (h *BookingHandler) RequestBooking(c echo.Context) error {
	hallID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.svc.RequestBooking(c.Request().Context(), service.BookingRequest{
		HallID:              hallID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		NumAttendees:        req.NumAttendees,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		TotalAmount:         req.TotalAmount,
		Notes:               req.Notes,
		SpecialRequirements: req.SpecialRequirements,
		EquipmentRequested:  req.EquipmentRequested,
		CreatedBy:           req.CreatedBy,
		IdempotencyKey:      c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	hallID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var rng *repository.TimeRange
	fromStr, toStr := c.QueryParam("from"), c.QueryParam("to")
	if (fromStr == "") != (toStr == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to must be supplied together")
	}
	if fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from timestamp")
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to timestamp")
		}
		rng = &repository.TimeRange{From: from.UTC(), To: to.UTC()}
	}

	bookings, err := h.svc.ListBookingsForHall(c.Request().Context(), hallID, rng)
	if err != nil {
		return httpError(err)
	}
	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) Reschedule(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.svc.Reschedule(c.Request().Context(), id, req.StartTime, req.EndTime, req.Actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBooking(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) TransitionStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TransitionStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.lifecycle.TransitionStatus(c.Request().Context(), id, models.BookingStatus(req.Status), req.Reason, req.Actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) TransitionPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TransitionPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.lifecycle.TransitionPayment(c.Request().Context(), id, models.PaymentStatus(req.Status), req.Amount, req.Actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) AddEquipment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.EquipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.attachments.AddBookingEquipment(c.Request().Context(), id, req.Label)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) RemoveEquipment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid index")
	}

	booking, err := h.attachments.RemoveBookingEquipment(c.Request().Context(), id, index)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
