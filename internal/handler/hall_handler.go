package handler

import (
	"net/http"
	"strconv"

	"github.com/hallhub/reservation-service/internal/dto"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type HallHandler struct {
	svc         service.HallService
	attachments service.AttachmentService
}

func NewHallHandler(svc service.HallService, attachments service.AttachmentService) *HallHandler {
	return &HallHandler{svc: svc, attachments: attachments}
}

func (h *HallHandler) RegisterRoutes(e *echo.Echo) {
	halls := e.Group("/api/v1/halls")
	halls.POST("", h.CreateHall)
	halls.GET("", h.ListHalls)
	halls.GET("/:id", h.GetHall)
	halls.PATCH("/:id", h.UpdateHall)
	halls.DELETE("/:id", h.DeleteHall)
	halls.PUT("/:id/availability", h.SetAvailability)
	halls.POST("/:id/images", h.UploadImage)
	halls.PUT("/:id/images", h.AttachImage)
	halls.DELETE("/:id/images", h.DetachImage)
	halls.POST("/:id/equipment", h.AddEquipment)
	halls.DELETE("/:id/equipment/:index", h.RemoveEquipment)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func (h *HallHandler) CreateHall(c echo.Context) error {
	var req dto.CreateHallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hall := &models.Hall{
		Name:            req.Name,
		Description:     req.Description,
		Capacity:        req.Capacity,
		Area:            req.Area,
		HourlyRate:      req.HourlyRate,
		DailyRate:       req.DailyRate,
		SecurityDeposit: req.SecurityDeposit,
		Location:        req.Location,
		Rules:           req.Rules,
		Equipment:       req.Equipment,
		IsAvailable:     true,
	}
	if err := h.svc.CreateHall(c.Request().Context(), hall); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToHallResponse(hall))
}

func (h *HallHandler) GetHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	hall, err := h.svc.GetHall(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}

func (h *HallHandler) ListHalls(c echo.Context) error {
	filter := repository.HallFilter{
		AvailableOnly: c.QueryParam("available") == "true",
	}
	if v := c.QueryParam("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_capacity")
		}
		filter.MinCapacity = n
	}

	halls, err := h.svc.ListHalls(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	resp := make([]dto.HallResponse, len(halls))
	for i, hall := range halls {
		resp[i] = dto.ToHallResponse(&hall)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HallHandler) UpdateHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateHallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hall, err := h.svc.UpdateHall(c.Request().Context(), id, service.HallPatch{
		Name:            req.Name,
		Description:     req.Description,
		Capacity:        req.Capacity,
		Area:            req.Area,
		HourlyRate:      req.HourlyRate,
		DailyRate:       req.DailyRate,
		SecurityDeposit: req.SecurityDeposit,
		Location:        req.Location,
		Rules:           req.Rules,
		IsAvailable:     req.IsAvailable,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}

func (h *HallHandler) DeleteHall(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteHall(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HallHandler) SetAvailability(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hall, err := h.svc.SetAvailability(c.Request().Context(), id, *req.IsAvailable)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}

// UploadImage streams the request body to the blob store and attaches the
// resulting reference.
func (h *HallHandler) UploadImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	hall, ref, err := h.attachments.UploadImage(c.Request().Context(), id, c.Request().Body)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.UploadImageResponse{Ref: ref, Hall: dto.ToHallResponse(hall)})
}

func (h *HallHandler) AttachImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AttachImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hall, err := h.attachments.AttachImage(c.Request().Context(), id, req.Ref)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}

func (h *HallHandler) DetachImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DetachImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hall, err := h.attachments.DetachImage(c.Request().Context(), id, req.Ref)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}

func (h *HallHandler) AddEquipment(c echo.Context) error {
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

	hall, err := h.attachments.AddHallEquipment(c.Request().Context(), id, req.Label)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}

func (h *HallHandler) RemoveEquipment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid index")
	}

	hall, err := h.attachments.RemoveHallEquipment(c.Request().Context(), id, index)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHallResponse(hall))
}
