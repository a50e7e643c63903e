package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/pkg/rabbitmq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Idempotency key scheme and TTL for booking creation retries.
const (
	keyIdemBookingCreate = "idem:booking:create:%s"
	ttlIdempotency       = 24 * time.Hour
)

// BookingRequest is everything a caller supplies to reserve a slot. Pricing
// is external: TotalAmount arrives already computed.
type BookingRequest struct {
	HallID              uint
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	NumAttendees        int
	StartTime           time.Time
	EndTime             time.Time
	TotalAmount         float64
	Notes               string
	SpecialRequirements []string
	EquipmentRequested  []string
	CreatedBy           string
	IdempotencyKey      string
}

type BookingService interface {
	RequestBooking(ctx context.Context, req BookingRequest) (*models.Booking, error)
	Reschedule(ctx context.Context, bookingID uint, newStart, newEnd time.Time, actor string) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookingsForHall(ctx context.Context, hallID uint, rng *repository.TimeRange) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id uint) error
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	hallRepo    repository.HallRepository
	rdb         *redis.Client
	publisher   *rabbitmq.Publisher
	timeout     time.Duration
	log         *zap.Logger
}

func NewBookingService(bookingRepo repository.BookingRepository, hallRepo repository.HallRepository, rdb *redis.Client, publisher *rabbitmq.Publisher, cfg *config.Config, log *zap.Logger) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		hallRepo:    hallRepo,
		rdb:         rdb,
		publisher:   publisher,
		timeout:     cfg.StoreTimeout,
		log:         log,
	}
}

func (s *bookingService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// RequestBooking validates and creates a reservation atomically. The hall row
// lock serializes all writers for that hall, so the overlap count and the
// insert happen as one unit and two concurrent requests for intersecting
// slots cannot both succeed.
func (s *bookingService) RequestBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if req.NumAttendees < 1 {
		return nil, validationErr("num_attendees must be at least 1")
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, validationErr("customer_name and customer_email are required")
	}
	if req.TotalAmount < 0 {
		return nil, validationErr("total_amount must not be negative")
	}

	if existing, ok := s.findExisting(ctx, req.IdempotencyKey); ok {
		return existing, nil
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Hall must exist; the lock is held until commit.
		hall, err := s.hallRepo.FindByIDForUpdate(ctx, tx, req.HallID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHallNotFound
			}
			return err
		}

		// 2. Manual availability override.
		if !hall.IsAvailable {
			return ErrHallUnavailable
		}

		// 3. Interval sanity.
		if !start.Before(end) {
			return validationErr("start_time must be before end_time")
		}

		// 4. Capacity.
		if req.NumAttendees > hall.Capacity {
			return ErrCapacityExceeded
		}

		// 5. No overlap against non-terminal bookings, half-open intervals.
		count, err := s.bookingRepo.CountOverlapping(ctx, tx, req.HallID, start, end, 0)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotOverlap
		}

		booking := &models.Booking{
			HallID:              req.HallID,
			CustomerName:        req.CustomerName,
			CustomerEmail:       req.CustomerEmail,
			CustomerPhone:       req.CustomerPhone,
			NumAttendees:        req.NumAttendees,
			StartTime:           start,
			EndTime:             end,
			TotalAmount:         req.TotalAmount,
			AmountPaid:          0,
			Status:              models.StatusPending,
			PaymentStatus:       models.PaymentPending,
			Notes:               req.Notes,
			SpecialRequirements: req.SpecialRequirements,
			EquipmentRequested:  req.EquipmentRequested,
			CreatedBy:           req.CreatedBy,
			LastModifiedBy:      req.CreatedBy,
		}
		if req.IdempotencyKey != "" {
			booking.IdempotencyKey = &req.IdempotencyKey
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		// A retry of a request that already committed trips the partial
		// unique index on idempotency_key; resolve it to the existing row.
		if req.IdempotencyKey != "" {
			if existing, findErr := s.bookingRepo.FindByIdempotencyKey(ctx, req.IdempotencyKey); findErr == nil {
				return existing, nil
			}
		}
		if isDomainErr(err) {
			return nil, err
		}
		return nil, storeErr(err)
	}

	s.rememberIdempotency(ctx, req.IdempotencyKey, result.ID)
	s.notify("booking.created", result)
	s.log.Info("booking created",
		zap.Uint("booking_id", result.ID),
		zap.Uint("hall_id", result.HallID),
		zap.Time("start", result.StartTime),
		zap.Time("end", result.EndTime))
	return result, nil
}

// Reschedule moves a booking to a new interval, re-running the full check
// while ignoring the booking's own current slot.
func (s *bookingService) Reschedule(ctx context.Context, bookingID uint, newStart, newEnd time.Time, actor string) (*models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	start := newStart.UTC()
	end := newEnd.UTC()

	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Hall assignment is immutable, so an unlocked peek is enough to
		// learn which hall row to lock. Locks are taken hall first, then
		// booking, the same order DeleteHall uses.
		peek, err := s.bookingRepo.FindByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		hall, err := s.hallRepo.FindByIDForUpdate(ctx, tx, peek.HallID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHallNotFound
			}
			return err
		}

		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
			return fmt.Errorf("%w: cannot reschedule a %s booking", ErrInvalidTransition, booking.Status)
		}

		if !start.Before(end) {
			return validationErr("start_time must be before end_time")
		}
		if booking.NumAttendees > hall.Capacity {
			return ErrCapacityExceeded
		}

		count, err := s.bookingRepo.CountOverlapping(ctx, tx, booking.HallID, start, end, booking.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotOverlap
		}

		booking.StartTime = start
		booking.EndTime = end
		if actor != "" {
			booking.LastModifiedBy = actor
		}
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return nil, storeErr(err)
	}

	s.notify("booking.rescheduled", result)
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storeErr(err)
	}
	return booking, nil
}

func (s *bookingService) ListBookingsForHall(ctx context.Context, hallID uint, rng *repository.TimeRange) ([]models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.hallRepo.FindByID(ctx, hallID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, storeErr(err)
	}

	bookings, err := s.bookingRepo.FindByHallID(ctx, hallID, rng)
	if err != nil {
		return nil, storeErr(err)
	}
	return bookings, nil
}

// DeleteBooking is the administrative hard delete. Cancellation is a status
// transition, not a deletion.
func (s *bookingService) DeleteBooking(ctx context.Context, id uint) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.bookingRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return storeErr(err)
	}
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.log.Info("booking hard-deleted", zap.Uint("booking_id", id))
	return nil
}

// findExisting is the idempotency fast path: Redis first, then the
// authoritative unique index in the store.
func (s *bookingService) findExisting(ctx context.Context, key string) (*models.Booking, bool) {
	if key == "" {
		return nil, false
	}
	if s.rdb != nil {
		var id uint
		if err := s.rdb.Get(ctx, fmt.Sprintf(keyIdemBookingCreate, key)).Scan(&id); err == nil {
			if booking, err := s.bookingRepo.FindByID(ctx, id); err == nil {
				return booking, true
			}
		}
	}
	if booking, err := s.bookingRepo.FindByIdempotencyKey(ctx, key); err == nil {
		return booking, true
	}
	return nil, false
}

func (s *bookingService) rememberIdempotency(ctx context.Context, key string, bookingID uint) {
	if key == "" || s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(keyIdemBookingCreate, key), bookingID, ttlIdempotency).Err(); err != nil {
		s.log.Warn("idempotency cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// notify is fire-and-forget: a messaging failure never rolls anything back.
func (s *bookingService) notify(routingKey string, booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, booking); err != nil {
		s.log.Warn("notification publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

func isDomainErr(err error) bool {
	for _, target := range []error{
		ErrHallNotFound, ErrBookingNotFound, ErrHallUnavailable,
		ErrCapacityExceeded, ErrSlotOverlap, ErrInvalidTransition,
		ErrHallHasBookings, ErrValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
