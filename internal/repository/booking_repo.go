package repository

import (
	"context"
	"time"

	"github.com/hallhub/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimeRange filters a booking listing to intervals overlapping [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error)
	FindByHallID(ctx context.Context, hallID uint, rng *TimeRange) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	CountOverlapping(ctx context.Context, tx *gorm.DB, hallID uint, start, end time.Time, excludeID uint) (int64, error)
	CountActiveFuture(ctx context.Context, tx *gorm.DB, hallID uint, after time.Time) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Delete(ctx context.Context, id uint) error
	DeleteByHallID(ctx context.Context, tx *gorm.DB, hallID uint) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByHallID returns the hall's bookings in chronological order with a
// stable id tie-break for equal start times.
func (r *bookingRepository) FindByHallID(ctx context.Context, hallID uint, rng *TimeRange) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("hall_id = ?", hallID)
	if rng != nil {
		q = q.Where("start_time < ? AND end_time > ?", rng.To, rng.From)
	}
	if err := q.Order("start_time ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountOverlapping counts non-terminal bookings on the hall whose half-open
// interval intersects [start, end). Must run inside the transaction that
// holds the hall row lock, otherwise the check-then-insert race reopens.
func (r *bookingRepository) CountOverlapping(ctx context.Context, tx *gorm.DB, hallID uint, start, end time.Time, excludeID uint) (int64, error) {
	var count int64
	q := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("hall_id = ? AND status IN ?", hallID, models.ActiveStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountActiveFuture(ctx context.Context, tx *gorm.DB, hallID uint, after time.Time) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("hall_id = ? AND status IN ? AND end_time > ?", hallID, models.ActiveStatuses, after).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *bookingRepository) DeleteByHallID(ctx context.Context, tx *gorm.DB, hallID uint) error {
	return tx.WithContext(ctx).Where("hall_id = ?", hallID).Delete(&models.Booking{}).Error
}
