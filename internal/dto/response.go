package dto

import (
	"time"

	"github.com/hallhub/reservation-service/internal/models"
)

type HallResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Capacity        int       `json:"capacity"`
	Area            float64   `json:"area"`
	HourlyRate      float64   `json:"hourly_rate"`
	DailyRate       *float64  `json:"daily_rate,omitempty"`
	SecurityDeposit float64   `json:"security_deposit"`
	Location        string    `json:"location"`
	Rules           string    `json:"rules"`
	Equipment       []string  `json:"equipment"`
	Images          []string  `json:"images"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingResponse struct {
	ID                  uint                 `json:"id"`
	HallID              uint                 `json:"hall_id"`
	CustomerName        string               `json:"customer_name"`
	CustomerEmail       string               `json:"customer_email"`
	CustomerPhone       string               `json:"customer_phone"`
	NumAttendees        int                  `json:"num_attendees"`
	StartTime           time.Time            `json:"start_time"`
	EndTime             time.Time            `json:"end_time"`
	DurationHours       float64              `json:"duration_hours"`
	TotalAmount         float64              `json:"total_amount"`
	AmountPaid          float64              `json:"amount_paid"`
	Status              models.BookingStatus `json:"status"`
	PaymentStatus       models.PaymentStatus `json:"payment_status"`
	Notes               string               `json:"notes"`
	SpecialRequirements []string             `json:"special_requirements"`
	EquipmentRequested  []string             `json:"equipment_requested"`
	CancellationReason  *string              `json:"cancellation_reason,omitempty"`
	CancellationDate    *time.Time           `json:"cancellation_date,omitempty"`
	CreatedBy           string               `json:"created_by"`
	LastModifiedBy      string               `json:"last_modified_by"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type StatsResponse struct {
	TotalHalls        int     `json:"total_halls"`
	AvailableHalls    int     `json:"available_halls"`
	TotalBookings     int     `json:"total_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageHourlyRate float64 `json:"average_hourly_rate"`
	OccupancyRate     float64 `json:"occupancy_rate"`
}

type UploadImageResponse struct {
	Ref  string       `json:"ref"`
	Hall HallResponse `json:"hall"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToHallResponse(h *models.Hall) HallResponse {
	return HallResponse{
		ID:              h.ID,
		Name:            h.Name,
		Description:     h.Description,
		Capacity:        h.Capacity,
		Area:            h.Area,
		HourlyRate:      h.HourlyRate,
		DailyRate:       h.DailyRate,
		SecurityDeposit: h.SecurityDeposit,
		Location:        h.Location,
		Rules:           h.Rules,
		Equipment:       h.Equipment,
		Images:          h.Images,
		IsAvailable:     h.IsAvailable,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:                  b.ID,
		HallID:              b.HallID,
		CustomerName:        b.CustomerName,
		CustomerEmail:       b.CustomerEmail,
		CustomerPhone:       b.CustomerPhone,
		NumAttendees:        b.NumAttendees,
		StartTime:           b.StartTime,
		EndTime:             b.EndTime,
		DurationHours:       b.DurationHours(),
		TotalAmount:         b.TotalAmount,
		AmountPaid:          b.AmountPaid,
		Status:              b.Status,
		PaymentStatus:       b.PaymentStatus,
		Notes:               b.Notes,
		SpecialRequirements: b.SpecialRequirements,
		EquipmentRequested:  b.EquipmentRequested,
		CancellationReason:  b.CancellationReason,
		CancellationDate:    b.CancellationDate,
		CreatedBy:           b.CreatedBy,
		LastModifiedBy:      b.LastModifiedBy,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}
