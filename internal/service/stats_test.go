package service

import (
	"testing"
	"time"

	"github.com/hallhub/reservation-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats_EmptySets(t *testing.T) {
	stats := ComputeStats(nil, nil)

	assert.Equal(t, 0, stats.TotalHalls)
	assert.Equal(t, 0, stats.AvailableHalls)
	assert.Equal(t, 0, stats.TotalBookings)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0.0, stats.AverageHourlyRate)
	assert.Equal(t, 0.0, stats.OccupancyRate)
}

func TestComputeStats_Mixed(t *testing.T) {
	halls := []models.Hall{
		{ID: 1, Capacity: 100, HourlyRate: 100, IsAvailable: true},
		{ID: 2, Capacity: 50, HourlyRate: 200, IsAvailable: false},
		{ID: 3, Capacity: 50, HourlyRate: 60, IsAvailable: true},
	}
	bookings := []models.Booking{
		{ID: 1, HallID: 1, NumAttendees: 80, TotalAmount: 1200, Status: models.StatusConfirmed},
		{ID: 2, HallID: 3, NumAttendees: 20, TotalAmount: 300, Status: models.StatusPending},
		{ID: 3, HallID: 2, NumAttendees: 40, TotalAmount: 500, Status: models.StatusCancelled},
	}

	stats := ComputeStats(halls, bookings)

	assert.Equal(t, 3, stats.TotalHalls)
	assert.Equal(t, 2, stats.AvailableHalls)
	assert.Equal(t, 3, stats.TotalBookings)
	assert.Equal(t, 2000.0, stats.TotalRevenue)
	assert.Equal(t, 120.0, stats.AverageHourlyRate)
	// 140 attendees over 200 seats.
	assert.InDelta(t, 70.0, stats.OccupancyRate, 1e-9)
}

func TestComputeStats_ZeroCapacityHalls(t *testing.T) {
	halls := []models.Hall{{ID: 1, Capacity: 0, HourlyRate: 50, IsAvailable: true}}
	bookings := []models.Booking{{ID: 1, HallID: 1, NumAttendees: 10, TotalAmount: 100}}

	stats := ComputeStats(halls, bookings)

	assert.Equal(t, 0.0, stats.OccupancyRate)
	assert.Equal(t, 100.0, stats.TotalRevenue)
}

func TestComputeStats_BookingsWithoutHalls(t *testing.T) {
	bookings := []models.Booking{{ID: 1, HallID: 42, NumAttendees: 10, TotalAmount: 250}}

	stats := ComputeStats(nil, bookings)

	assert.Equal(t, 0, stats.TotalHalls)
	assert.Equal(t, 1, stats.TotalBookings)
	assert.Equal(t, 250.0, stats.TotalRevenue)
	assert.Equal(t, 0.0, stats.AverageHourlyRate)
	assert.Equal(t, 0.0, stats.OccupancyRate)
}

// ComputeStats must not mutate its inputs.
func TestComputeStats_Pure(t *testing.T) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	halls := []models.Hall{{ID: 1, Capacity: 100, HourlyRate: 80, IsAvailable: true}}
	bookings := []models.Booking{{ID: 1, HallID: 1, NumAttendees: 50, TotalAmount: 400, StartTime: start}}

	first := ComputeStats(halls, bookings)
	second := ComputeStats(halls, bookings)

	assert.Equal(t, first, second)
	assert.Equal(t, 100, halls[0].Capacity)
	assert.Equal(t, 400.0, bookings[0].TotalAmount)
	assert.Equal(t, start, bookings[0].StartTime)
}
