package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/lifecycle"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/pkg/rabbitmq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LifecycleService interface {
	TransitionStatus(ctx context.Context, bookingID uint, to models.BookingStatus, reason, actor string) (*models.Booking, error)
	TransitionPayment(ctx context.Context, bookingID uint, to models.PaymentStatus, amount float64, actor string) (*models.Booking, error)
}

type lifecycleService struct {
	bookingRepo  repository.BookingRepository
	publisher    *rabbitmq.Publisher
	timeout      time.Duration
	allowPartial bool
	log          *zap.Logger
}

func NewLifecycleService(bookingRepo repository.BookingRepository, publisher *rabbitmq.Publisher, cfg *config.Config, log *zap.Logger) LifecycleService {
	return &lifecycleService{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		timeout:      cfg.StoreTimeout,
		allowPartial: cfg.AllowCompletePartialPayment,
		log:          log,
	}
}

func (s *lifecycleService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// TransitionStatus applies one step on the status axis. An invalid step
// leaves the booking untouched. Cancelling is the only transition allowed to
// set the cancellation fields.
func (s *lifecycleService) TransitionStatus(ctx context.Context, bookingID uint, to models.BookingStatus, reason, actor string) (*models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !lifecycle.CanTransitionStatus(booking.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
		}
		if to == models.StatusCompleted && !lifecycle.CompletionAllowed(booking.PaymentStatus, s.allowPartial) {
			return fmt.Errorf("%w: cannot complete while payment is %s", ErrInvalidTransition, booking.PaymentStatus)
		}

		booking.Status = to
		if to == models.StatusCancelled {
			now := time.Now().UTC()
			booking.CancellationDate = &now
			if reason != "" {
				booking.CancellationReason = &reason
			}
		}
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

	s.notify("booking.status_changed", result)
	s.log.Info("booking status changed",
		zap.Uint("booking_id", result.ID),
		zap.String("status", string(result.Status)))
	return result, nil
}

// TransitionPayment records a payment state reported by the external payment
// collaborator. amount is a delta applied to amount_paid; it may be negative
// for refund corrections but must not drive the total below zero.
func (s *lifecycleService) TransitionPayment(ctx context.Context, bookingID uint, to models.PaymentStatus, amount float64, actor string) (*models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var result *models.Booking
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !lifecycle.CanTransitionPayment(booking.PaymentStatus, to) {
			return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, booking.PaymentStatus, to)
		}
		if booking.AmountPaid+amount < 0 {
			return validationErr("amount_paid cannot go negative")
		}

		booking.PaymentStatus = to
		booking.AmountPaid += amount
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

	s.notify("booking.payment_changed", result)
	s.log.Info("booking payment changed",
		zap.Uint("booking_id", result.ID),
		zap.String("payment_status", string(result.PaymentStatus)),
		zap.Float64("amount_paid", result.AmountPaid))
	return result, nil
}

func (s *lifecycleService) notify(routingKey string, booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, booking); err != nil {
		s.log.Warn("notification publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
