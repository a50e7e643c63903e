package dto

import "time"

type CreateHallRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	Capacity        int      `json:"capacity" validate:"required,gt=0"`
	Area            float64  `json:"area" validate:"gte=0"`
	HourlyRate      float64  `json:"hourly_rate" validate:"gte=0"`
	DailyRate       *float64 `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	SecurityDeposit float64  `json:"security_deposit" validate:"gte=0"`
	Location        string   `json:"location"`
	Rules           string   `json:"rules"`
	Equipment       []string `json:"equipment"`
}

// UpdateHallRequest carries patch semantics: absent fields stay untouched.
type UpdateHallRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Capacity        *int     `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Area            *float64 `json:"area,omitempty" validate:"omitempty,gte=0"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	DailyRate       *float64 `json:"daily_rate,omitempty" validate:"omitempty,gte=0"`
	SecurityDeposit *float64 `json:"security_deposit,omitempty" validate:"omitempty,gte=0"`
	Location        *string  `json:"location,omitempty"`
	Rules           *string  `json:"rules,omitempty"`
	IsAvailable     *bool    `json:"is_available,omitempty"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type CreateBookingRequest struct {
	CustomerName        string    `json:"customer_name" validate:"required"`
	CustomerEmail       string    `json:"customer_email" validate:"required,email"`
	CustomerPhone       string    `json:"customer_phone"`
	NumAttendees        int       `json:"num_attendees" validate:"required,gte=1"`
	StartTime           time.Time `json:"start_time" validate:"required"`
	EndTime             time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	TotalAmount         float64   `json:"total_amount" validate:"gte=0"`
	Notes               string    `json:"notes"`
	SpecialRequirements []string  `json:"special_requirements"`
	EquipmentRequested  []string  `json:"equipment_requested"`
	CreatedBy           string    `json:"created_by"`
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Actor     string    `json:"actor"`
}

type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

type TransitionPaymentRequest struct {
	Status string  `json:"status" validate:"required"`
	Amount float64 `json:"amount"`
	Actor  string  `json:"actor"`
}

type AttachImageRequest struct {
	Ref string `json:"ref" validate:"required"`
}

type DetachImageRequest struct {
	Ref string `json:"ref" validate:"required"`
}

type EquipmentRequest struct {
	Label string `json:"label" validate:"required"`
}
