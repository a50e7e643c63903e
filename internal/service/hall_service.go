package service

import (
	"context"
	"errors"
	"time"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/pkg/blobstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HallPatch carries partial updates; nil fields are left untouched.
type HallPatch struct {
	Name            *string
	Description     *string
	Capacity        *int
	Area            *float64
	HourlyRate      *float64
	DailyRate       *float64
	SecurityDeposit *float64
	Location        *string
	Rules           *string
	IsAvailable     *bool
}

type HallService interface {
	CreateHall(ctx context.Context, hall *models.Hall) error
	GetHall(ctx context.Context, id uint) (*models.Hall, error)
	UpdateHall(ctx context.Context, id uint, patch HallPatch) (*models.Hall, error)
	DeleteHall(ctx context.Context, id uint) error
	SetAvailability(ctx context.Context, id uint, available bool) (*models.Hall, error)
	ListHalls(ctx context.Context, filter repository.HallFilter) ([]models.Hall, error)
}

type hallService struct {
	hallRepo    repository.HallRepository
	bookingRepo repository.BookingRepository
	blobs       blobstore.Store
	timeout     time.Duration
	deletePol   string
	log         *zap.Logger
}

func NewHallService(hallRepo repository.HallRepository, bookingRepo repository.BookingRepository, blobs blobstore.Store, cfg *config.Config, log *zap.Logger) HallService {
	return &hallService{
		hallRepo:    hallRepo,
		bookingRepo: bookingRepo,
		blobs:       blobs,
		timeout:     cfg.StoreTimeout,
		deletePol:   cfg.HallDeletePolicy,
		log:         log,
	}
}

func (s *hallService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func validateHall(hall *models.Hall) error {
	if hall.Name == "" {
		return validationErr("name is required")
	}
	if hall.Capacity <= 0 {
		return validationErr("capacity must be greater than zero")
	}
	if hall.HourlyRate < 0 {
		return validationErr("hourly_rate must not be negative")
	}
	if hall.DailyRate != nil && *hall.DailyRate < 0 {
		return validationErr("daily_rate must not be negative")
	}
	if hall.SecurityDeposit < 0 {
		return validationErr("security_deposit must not be negative")
	}
	return nil
}

func (s *hallService) CreateHall(ctx context.Context, hall *models.Hall) error {
	if err := validateHall(hall); err != nil {
		return err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.hallRepo.Create(ctx, hall); err != nil {
		return storeErr(err)
	}
	s.log.Info("hall created", zap.Uint("hall_id", hall.ID), zap.String("name", hall.Name))
	return nil
}

func (s *hallService) GetHall(ctx context.Context, id uint) (*models.Hall, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.hallRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, storeErr(err)
	}
	return hall, nil
}

func (s *hallService) UpdateHall(ctx context.Context, id uint, patch HallPatch) (*models.Hall, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.hallRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, storeErr(err)
	}

	applyPatch(hall, patch)
	if err := validateHall(hall); err != nil {
		return nil, err
	}

	if err := s.hallRepo.Save(ctx, hall); err != nil {
		return nil, storeErr(err)
	}
	return hall, nil
}

func applyPatch(hall *models.Hall, patch HallPatch) {
	if patch.Name != nil {
		hall.Name = *patch.Name
	}
	if patch.Description != nil {
		hall.Description = *patch.Description
	}
	if patch.Capacity != nil {
		hall.Capacity = *patch.Capacity
	}
	if patch.Area != nil {
		hall.Area = *patch.Area
	}
	if patch.HourlyRate != nil {
		hall.HourlyRate = *patch.HourlyRate
	}
	if patch.DailyRate != nil {
		hall.DailyRate = patch.DailyRate
	}
	if patch.SecurityDeposit != nil {
		hall.SecurityDeposit = *patch.SecurityDeposit
	}
	if patch.Location != nil {
		hall.Location = *patch.Location
	}
	if patch.Rules != nil {
		hall.Rules = *patch.Rules
	}
	if patch.IsAvailable != nil {
		hall.IsAvailable = *patch.IsAvailable
	}
}

// DeleteHall removes a hall under the configured dependents policy. Image
// blobs are released before the row goes away; blob deletion tolerates refs
// that are already gone, so a retried delete converges.
func (s *hallService) DeleteHall(ctx context.Context, id uint) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.hallRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHallNotFound
		}
		return storeErr(err)
	}

	if s.deletePol != config.DeletePolicyCascade {
		count, err := s.bookingRepo.CountActiveFuture(ctx, s.bookingRepo.GetDB(), id, time.Now().UTC())
		if err != nil {
			return storeErr(err)
		}
		if count > 0 {
			return ErrHallHasBookings
		}
	}

	// Blob I/O stays outside the transaction; it must not hold the hall lock.
	if s.blobs != nil {
		for _, ref := range hall.Images {
			if err := s.blobs.Delete(ctx, ref); err != nil {
				s.log.Warn("releasing hall image failed", zap.Uint("hall_id", id), zap.String("ref", ref), zap.Error(err))
			}
		}
	}

	err = s.hallRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.hallRepo.FindByIDForUpdate(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHallNotFound
			}
			return err
		}

		if s.deletePol == config.DeletePolicyCascade {
			if err := s.bookingRepo.DeleteByHallID(ctx, tx, id); err != nil {
				return err
			}
		} else {
			// Re-check under the lock: a booking may have landed since the
			// pre-check.
			count, err := s.bookingRepo.CountActiveFuture(ctx, tx, id, time.Now().UTC())
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrHallHasBookings
			}
		}

		return s.hallRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, ErrHallNotFound) || errors.Is(err, ErrHallHasBookings) {
			return err
		}
		return storeErr(err)
	}

	s.log.Info("hall deleted", zap.Uint("hall_id", id), zap.String("policy", s.deletePol))
	return nil
}

func (s *hallService) SetAvailability(ctx context.Context, id uint, available bool) (*models.Hall, error) {
	v := available
	return s.UpdateHall(ctx, id, HallPatch{IsAvailable: &v})
}

func (s *hallService) ListHalls(ctx context.Context, filter repository.HallFilter) ([]models.Hall, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	halls, err := s.hallRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return halls, nil
}
