package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/pkg/blobstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttachmentService manages the opaque asset references and equipment tag
// lists hanging off halls and bookings. Actual bytes live in the blob store;
// this service only tracks references.
type AttachmentService interface {
	UploadImage(ctx context.Context, hallID uint, r io.Reader) (*models.Hall, string, error)
	AttachImage(ctx context.Context, hallID uint, ref string) (*models.Hall, error)
	DetachImage(ctx context.Context, hallID uint, ref string) (*models.Hall, error)
	AddHallEquipment(ctx context.Context, hallID uint, label string) (*models.Hall, error)
	RemoveHallEquipment(ctx context.Context, hallID uint, index int) (*models.Hall, error)
	AddBookingEquipment(ctx context.Context, bookingID uint, label string) (*models.Booking, error)
	RemoveBookingEquipment(ctx context.Context, bookingID uint, index int) (*models.Booking, error)
}

type attachmentService struct {
	hallRepo    repository.HallRepository
	bookingRepo repository.BookingRepository
	blobs       blobstore.Store
	timeout     time.Duration
	log         *zap.Logger
}

func NewAttachmentService(hallRepo repository.HallRepository, bookingRepo repository.BookingRepository, blobs blobstore.Store, cfg *config.Config, log *zap.Logger) AttachmentService {
	return &attachmentService{
		hallRepo:    hallRepo,
		bookingRepo: bookingRepo,
		blobs:       blobs,
		timeout:     cfg.StoreTimeout,
		log:         log,
	}
}

func (s *attachmentService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *attachmentService) getHall(ctx context.Context, id uint) (*models.Hall, error) {
	hall, err := s.hallRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, storeErr(err)
	}
	return hall, nil
}

func (s *attachmentService) getBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storeErr(err)
	}
	return booking, nil
}

// UploadImage pushes the bytes to the blob store first and attaches the
// returned reference as a separate step. The upload never holds any booking
// lock; a crash between the two steps leaves an orphan blob, and the retry
// path is AttachImage with the same stable reference.
func (s *attachmentService) UploadImage(ctx context.Context, hallID uint, r io.Reader) (*models.Hall, string, error) {
	if s.blobs == nil {
		return nil, "", validationErr("no blob store configured")
	}

	// The hall must exist before paying for the upload.
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if _, err := s.getHall(ctx, hallID); err != nil {
		return nil, "", err
	}

	ref, err := s.blobs.Upload(ctx, r)
	if err != nil {
		return nil, "", storeErr(err)
	}

	hall, err := s.AttachImage(ctx, hallID, ref)
	if err != nil {
		return nil, ref, err
	}
	return hall, ref, nil
}

// AttachImage is idempotent on retry: attaching a reference that is already
// present is a no-op success.
func (s *attachmentService) AttachImage(ctx context.Context, hallID uint, ref string) (*models.Hall, error) {
	if ref == "" {
		return nil, validationErr("image ref is required")
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	for _, existing := range hall.Images {
		if existing == ref {
			return hall, nil
		}
	}
	hall.Images = append(hall.Images, ref)
	if err := s.hallRepo.Save(ctx, hall); err != nil {
		return nil, storeErr(err)
	}
	return hall, nil
}

// DetachImage removes the reference and deletes the blob. A reference that
// is already gone, on either side, counts as success.
func (s *attachmentService) DetachImage(ctx context.Context, hallID uint, ref string) (*models.Hall, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	kept := hall.Images[:0]
	removed := false
	for _, existing := range hall.Images {
		if existing == ref && !removed {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if removed {
		hall.Images = kept
		if err := s.hallRepo.Save(ctx, hall); err != nil {
			return nil, storeErr(err)
		}
	}

	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.log.Warn("blob delete failed", zap.String("ref", ref), zap.Error(err))
		}
	}
	return hall, nil
}

// Equipment lists keep insertion order and allow duplicate labels.
func (s *attachmentService) AddHallEquipment(ctx context.Context, hallID uint, label string) (*models.Hall, error) {
	if label == "" {
		return nil, validationErr("equipment label is required")
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	hall.Equipment = append(hall.Equipment, label)
	if err := s.hallRepo.Save(ctx, hall); err != nil {
		return nil, storeErr(err)
	}
	return hall, nil
}

func (s *attachmentService) RemoveHallEquipment(ctx context.Context, hallID uint, index int) (*models.Hall, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(hall.Equipment) {
		return nil, validationErr("equipment index %d out of range", index)
	}
	hall.Equipment = append(hall.Equipment[:index], hall.Equipment[index+1:]...)
	if err := s.hallRepo.Save(ctx, hall); err != nil {
		return nil, storeErr(err)
	}
	return hall, nil
}

func (s *attachmentService) AddBookingEquipment(ctx context.Context, bookingID uint, label string) (*models.Booking, error) {
	if label == "" {
		return nil, validationErr("equipment label is required")
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.EquipmentRequested = append(booking.EquipmentRequested, label)
	if err := s.bookingRepo.Save(ctx, s.bookingRepo.GetDB(), booking); err != nil {
		return nil, storeErr(err)
	}
	return booking, nil
}

func (s *attachmentService) RemoveBookingEquipment(ctx context.Context, bookingID uint, index int) (*models.Booking, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(booking.EquipmentRequested) {
		return nil, validationErr("equipment index %d out of range", index)
	}
	booking.EquipmentRequested = append(booking.EquipmentRequested[:index], booking.EquipmentRequested[index+1:]...)
	if err := s.bookingRepo.Save(ctx, s.bookingRepo.GetDB(), booking); err != nil {
		return nil, storeErr(err)
	}
	return booking, nil
}
