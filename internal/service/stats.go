package service

import (
	"context"
	"time"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
)

// Stats is an ephemeral snapshot derived from the hall and booking sets. It
// is recomputed on demand and never persisted.
type Stats struct {
	TotalHalls        int     `json:"total_halls"`
	AvailableHalls    int     `json:"available_halls"`
	TotalBookings     int     `json:"total_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageHourlyRate float64 `json:"average_hourly_rate"`
	OccupancyRate     float64 `json:"occupancy_rate"`
}

// ComputeStats is a pure function over the two sets. Every division guards
// its denominator and yields 0 instead of failing.
func ComputeStats(halls []models.Hall, bookings []models.Booking) Stats {
	stats := Stats{
		TotalHalls:    len(halls),
		TotalBookings: len(bookings),
	}

	var rateSum float64
	var capacitySum int
	for _, h := range halls {
		if h.IsAvailable {
			stats.AvailableHalls++
		}
		rateSum += h.HourlyRate
		capacitySum += h.Capacity
	}

	var attendeeSum int
	for _, b := range bookings {
		stats.TotalRevenue += b.TotalAmount
		attendeeSum += b.NumAttendees
	}

	if len(halls) > 0 {
		stats.AverageHourlyRate = rateSum / float64(len(halls))
	}
	if capacitySum > 0 {
		stats.OccupancyRate = float64(attendeeSum) / float64(capacitySum) * 100
	}
	return stats
}

type StatsService interface {
	GetStats(ctx context.Context) (Stats, error)
}

type statsService struct {
	hallRepo    repository.HallRepository
	bookingRepo repository.BookingRepository
	timeout     time.Duration
}

func NewStatsService(hallRepo repository.HallRepository, bookingRepo repository.BookingRepository, cfg *config.Config) StatsService {
	return &statsService{hallRepo: hallRepo, bookingRepo: bookingRepo, timeout: cfg.StoreTimeout}
}

func (s *statsService) GetStats(ctx context.Context) (Stats, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	halls, err := s.hallRepo.FindAll(ctx, repository.HallFilter{})
	if err != nil {
		return Stats{}, storeErr(err)
	}
	bookings, err := s.bookingRepo.FindAll(ctx)
	if err != nil {
		return Stats{}, storeErr(err)
	}
	return ComputeStats(halls, bookings), nil
}
