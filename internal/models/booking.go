package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// ActiveStatuses are the statuses that hold a time slot. Cancelled and
// no-show bookings never block the calendar.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

type Booking struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	HallID              uint          `gorm:"not null;index:idx_booking_hall_time" json:"hall_id"`
	CustomerName        string        `gorm:"not null" json:"customer_name"`
	CustomerEmail       string        `gorm:"not null" json:"customer_email"`
	CustomerPhone       string        `json:"customer_phone"`
	NumAttendees        int           `gorm:"not null" json:"num_attendees"`
	StartTime           time.Time     `gorm:"not null;index:idx_booking_hall_time" json:"start_time"`
	EndTime             time.Time     `gorm:"not null" json:"end_time"`
	TotalAmount         float64       `gorm:"not null" json:"total_amount"`
	AmountPaid          float64       `gorm:"not null;default:0" json:"amount_paid"`
	Status              BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus       PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Notes               string        `json:"notes"`
	SpecialRequirements []string      `gorm:"serializer:json" json:"special_requirements"`
	EquipmentRequested  []string      `gorm:"serializer:json" json:"equipment_requested"`
	CancellationReason  *string       `json:"cancellation_reason,omitempty"`
	CancellationDate    *time.Time    `json:"cancellation_date,omitempty"`
	IdempotencyKey      *string       `json:"-"`
	CreatedBy           string        `json:"created_by"`
	LastModifiedBy      string        `json:"last_modified_by"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`

	Hall *Hall `gorm:"foreignKey:HallID" json:"hall,omitempty"`
}

// DurationHours is derived from the interval and never stored.
func (b *Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// share any instant. A booking ending at 14:00 does not conflict with one
// starting at 14:00.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
