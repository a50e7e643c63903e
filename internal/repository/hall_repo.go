package repository

import (
	"context"

	"github.com/hallhub/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HallFilter narrows ListHalls. Zero values mean "no filter".
type HallFilter struct {
	AvailableOnly bool
	MinCapacity   int
}

type HallRepository interface {
	Create(ctx context.Context, hall *models.Hall) error
	FindByID(ctx context.Context, id uint) (*models.Hall, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Hall, error)
	FindAll(ctx context.Context, filter HallFilter) ([]models.Hall, error)
	Save(ctx context.Context, hall *models.Hall) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetDB() *gorm.DB
}

type hallRepository struct {
	db *gorm.DB
}

func NewHallRepository(db *gorm.DB) HallRepository {
	return &hallRepository{db: db}
}

func (r *hallRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *hallRepository) Create(ctx context.Context, hall *models.Hall) error {
	return r.db.WithContext(ctx).Create(hall).Error
}

func (r *hallRepository) FindByID(ctx context.Context, id uint) (*models.Hall, error) {
	var hall models.Hall
	if err := r.db.WithContext(ctx).First(&hall, id).Error; err != nil {
		return nil, err
	}
	return &hall, nil
}

// FindByIDForUpdate acquires a row-level lock on the hall within the given
// transaction. All booking writes for a hall serialize on this lock.
func (r *hallRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Hall, error) {
	var hall models.Hall
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&hall, id).Error; err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *hallRepository) FindAll(ctx context.Context, filter HallFilter) ([]models.Hall, error) {
	var halls []models.Hall
	q := r.db.WithContext(ctx)
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.MinCapacity > 0 {
		q = q.Where("capacity >= ?", filter.MinCapacity)
	}
	if err := q.Order("id ASC").Find(&halls).Error; err != nil {
		return nil, err
	}
	return halls, nil
}

func (r *hallRepository) Save(ctx context.Context, hall *models.Hall) error {
	return r.db.WithContext(ctx).Save(hall).Error
}

func (r *hallRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Hall{}, id).Error
}
