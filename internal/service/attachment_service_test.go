package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/models"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock HallRepository ---

type mockHallRepo struct {
	findByIDFn func(ctx context.Context, id uint) (*models.Hall, error)
	saveFn     func(ctx context.Context, hall *models.Hall) error
}

func (m *mockHallRepo) Create(ctx context.Context, hall *models.Hall) error { return nil }
func (m *mockHallRepo) FindByID(ctx context.Context, id uint) (*models.Hall, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockHallRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Hall, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockHallRepo) FindAll(ctx context.Context, filter repository.HallFilter) ([]models.Hall, error) {
	return nil, nil
}
func (m *mockHallRepo) Save(ctx context.Context, hall *models.Hall) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, hall)
	}
	return nil
}
func (m *mockHallRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }
func (m *mockHallRepo) GetDB() *gorm.DB                                        { return nil }

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	findByIDFn     func(ctx context.Context, id uint) (*models.Booking, error)
	findByIdemFn   func(ctx context.Context, key string) (*models.Booking, error)
	findByHallIDFn func(ctx context.Context, hallID uint, rng *repository.TimeRange) ([]models.Booking, error)
	saveFn         func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	deleteFn       func(ctx context.Context, id uint) error
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return nil
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockBookingRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error) {
	if m.findByIdemFn != nil {
		return m.findByIdemFn(ctx, key)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBookingRepo) FindByHallID(ctx context.Context, hallID uint, rng *repository.TimeRange) ([]models.Booking, error) {
	if m.findByHallIDFn != nil {
		return m.findByHallIDFn(ctx, hallID, rng)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) { return nil, nil }
func (m *mockBookingRepo) CountOverlapping(ctx context.Context, tx *gorm.DB, hallID uint, start, end time.Time, excludeID uint) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) CountActiveFuture(ctx context.Context, tx *gorm.DB, hallID uint, after time.Time) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, tx, booking)
	}
	return nil
}
func (m *mockBookingRepo) Delete(ctx context.Context, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *mockBookingRepo) DeleteByHallID(ctx context.Context, tx *gorm.DB, hallID uint) error {
	return nil
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

// --- Fake blob store ---

type fakeBlobStore struct {
	uploads   int
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeBlobStore) Upload(ctx context.Context, r io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	return "halls/blob-1", nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, ref string) error {
	f.deletes = append(f.deletes, ref)
	return f.deleteErr
}

func newAttachmentFixture(hall *models.Hall, booking *models.Booking, blobs *fakeBlobStore) AttachmentService {
	hallRepo := &mockHallRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Hall, error) {
			if hall == nil || hall.ID != id {
				return nil, gorm.ErrRecordNotFound
			}
			return hall, nil
		},
	}
	bookingRepo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			if booking == nil || booking.ID != id {
				return nil, gorm.ErrRecordNotFound
			}
			return booking, nil
		},
	}
	cfg := &config.Config{}
	if blobs == nil {
		return NewAttachmentService(hallRepo, bookingRepo, nil, cfg, zap.NewNop())
	}
	return NewAttachmentService(hallRepo, bookingRepo, blobs, cfg, zap.NewNop())
}

func TestUploadImage_AttachesReturnedRef(t *testing.T) {
	hall := &models.Hall{ID: 1, Name: "Main Hall", Capacity: 100}
	blobs := &fakeBlobStore{}
	svc := newAttachmentFixture(hall, nil, blobs)

	got, ref, err := svc.UploadImage(context.Background(), 1, strings.NewReader("bytes"))

	assert.NoError(t, err)
	assert.Equal(t, "halls/blob-1", ref)
	assert.Equal(t, []string{"halls/blob-1"}, got.Images)
	assert.Equal(t, 1, blobs.uploads)
}

func TestUploadImage_HallMissing_NoUpload(t *testing.T) {
	blobs := &fakeBlobStore{}
	svc := newAttachmentFixture(nil, nil, blobs)

	_, _, err := svc.UploadImage(context.Background(), 42, strings.NewReader("bytes"))

	assert.ErrorIs(t, err, ErrHallNotFound)
	assert.Equal(t, 0, blobs.uploads)
}

func TestUploadImage_NoStoreConfigured(t *testing.T) {
	hall := &models.Hall{ID: 1}
	svc := newAttachmentFixture(hall, nil, nil)

	_, _, err := svc.UploadImage(context.Background(), 1, strings.NewReader("bytes"))

	assert.ErrorIs(t, err, ErrValidation)
}

func TestAttachImage_IdempotentOnRetry(t *testing.T) {
	hall := &models.Hall{ID: 1, Images: []string{"halls/a"}}
	svc := newAttachmentFixture(hall, nil, &fakeBlobStore{})

	got, err := svc.AttachImage(context.Background(), 1, "halls/a")

	assert.NoError(t, err)
	assert.Equal(t, []string{"halls/a"}, got.Images)
}

func TestAttachImage_AppendsNewRef(t *testing.T) {
	hall := &models.Hall{ID: 1, Images: []string{"halls/a"}}
	svc := newAttachmentFixture(hall, nil, &fakeBlobStore{})

	got, err := svc.AttachImage(context.Background(), 1, "halls/b")

	assert.NoError(t, err)
	assert.Equal(t, []string{"halls/a", "halls/b"}, got.Images)
}

func TestAttachImage_EmptyRef(t *testing.T) {
	svc := newAttachmentFixture(&models.Hall{ID: 1}, nil, &fakeBlobStore{})

	_, err := svc.AttachImage(context.Background(), 1, "")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDetachImage_RemovesRefAndDeletesBlob(t *testing.T) {
	hall := &models.Hall{ID: 1, Images: []string{"halls/a", "halls/b"}}
	blobs := &fakeBlobStore{}
	svc := newAttachmentFixture(hall, nil, blobs)

	got, err := svc.DetachImage(context.Background(), 1, "halls/a")

	assert.NoError(t, err)
	assert.Equal(t, []string{"halls/b"}, got.Images)
	assert.Equal(t, []string{"halls/a"}, blobs.deletes)
}

func TestDetachImage_AbsentRefIsSuccess(t *testing.T) {
	hall := &models.Hall{ID: 1, Images: []string{"halls/a"}}
	saved := false
	hallRepo := &mockHallRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Hall, error) { return hall, nil },
		saveFn: func(ctx context.Context, h *models.Hall) error {
			saved = true
			return nil
		},
	}
	blobs := &fakeBlobStore{}
	svc := NewAttachmentService(hallRepo, &mockBookingRepo{}, blobs, &config.Config{}, zap.NewNop())

	got, err := svc.DetachImage(context.Background(), 1, "halls/never-there")

	assert.NoError(t, err)
	assert.Equal(t, []string{"halls/a"}, got.Images)
	assert.False(t, saved, "nothing removed, nothing to persist")
}

func TestDetachImage_BlobDeleteFailureIsNotFatal(t *testing.T) {
	hall := &models.Hall{ID: 1, Images: []string{"halls/a"}}
	blobs := &fakeBlobStore{deleteErr: errors.New("cdn unreachable")}
	svc := newAttachmentFixture(hall, nil, blobs)

	got, err := svc.DetachImage(context.Background(), 1, "halls/a")

	assert.NoError(t, err)
	assert.Empty(t, got.Images)
}

func TestHallEquipment_DuplicatesAndOrder(t *testing.T) {
	hall := &models.Hall{ID: 1, Equipment: []string{"projector"}}
	svc := newAttachmentFixture(hall, nil, &fakeBlobStore{})

	_, err := svc.AddHallEquipment(context.Background(), 1, "microphone")
	assert.NoError(t, err)
	got, err := svc.AddHallEquipment(context.Background(), 1, "projector")
	assert.NoError(t, err)

	assert.Equal(t, []string{"projector", "microphone", "projector"}, got.Equipment)
}

func TestRemoveHallEquipment_OutOfRange(t *testing.T) {
	hall := &models.Hall{ID: 1, Equipment: []string{"projector"}}
	svc := newAttachmentFixture(hall, nil, &fakeBlobStore{})

	_, err := svc.RemoveHallEquipment(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RemoveHallEquipment(context.Background(), 1, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveHallEquipment_ShiftsLeft(t *testing.T) {
	hall := &models.Hall{ID: 1, Equipment: []string{"a", "b", "c"}}
	svc := newAttachmentFixture(hall, nil, &fakeBlobStore{})

	got, err := svc.RemoveHallEquipment(context.Background(), 1, 1)

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got.Equipment)
}

func TestBookingEquipment_AddAndRemove(t *testing.T) {
	booking := &models.Booking{ID: 7, EquipmentRequested: []string{"stage"}}
	svc := newAttachmentFixture(nil, booking, &fakeBlobStore{})

	got, err := svc.AddBookingEquipment(context.Background(), 7, "lighting")
	assert.NoError(t, err)
	assert.Equal(t, []string{"stage", "lighting"}, got.EquipmentRequested)

	got, err = svc.RemoveBookingEquipment(context.Background(), 7, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"lighting"}, got.EquipmentRequested)
}

func TestBookingEquipment_UnknownBooking(t *testing.T) {
	svc := newAttachmentFixture(nil, nil, &fakeBlobStore{})

	_, err := svc.AddBookingEquipment(context.Background(), 99, "stage")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
