package repositories

import (
	"errors"
	"time"

	"cargolink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTransportNotFound = errors.New("transport not found")

type TransportRepository interface {
	Create(transport *models.Transport) error
	Update(transport *models.Transport) error
	FindByID(id string) (*models.Transport, error)
	FindByOwner(ownerID string, limit, offset int) ([]models.Transport, int64, error)
	SetActive(id string, active bool) error

	// StreamMatchable постранично обходит активный транспорт, пригодный
	// для гео-подбора (есть координаты или хотя бы город).
	StreamMatchable(lookback time.Duration, fn func(batch []models.Transport) error) error

	// StreamActive обходит весь активный транспорт без гео-предикатов
	// (используется воркером просрочки).
	StreamActive(fn func(batch []models.Transport) error) error
}

type TransportRepositoryImpl struct {
	db *gorm.DB
}

func NewTransportRepository(db *gorm.DB) TransportRepository {
	return &TransportRepositoryImpl{db: db}
}

func (r *TransportRepositoryImpl) Create(transport *models.Transport) error {
	return r.db.Create(transport).Error
}

func (r *TransportRepositoryImpl) Update(transport *models.Transport) error {
	return r.db.Save(transport).Error
}

func (r *TransportRepositoryImpl) FindByID(id string) (*models.Transport, error) {
	var transport models.Transport
	if err := r.db.First(&transport, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransportNotFound
		}
		return nil, err
	}
	return &transport, nil
}

func (r *TransportRepositoryImpl) FindByOwner(ownerID string, limit, offset int) ([]models.Transport, int64, error) {
	var transports []models.Transport
	var total int64

	q := r.db.Model(&models.Transport{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transports).Error
	return transports, total, err
}

func (r *TransportRepositoryImpl) SetActive(id string, active bool) error {
	res := r.db.Model(&models.Transport{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransportNotFound
	}
	return nil
}

func (r *TransportRepositoryImpl) StreamMatchable(lookback time.Duration, fn func(batch []models.Transport) error) error {
	q := r.db.Where("is_active = ?", true).
		Where("(lat IS NOT NULL AND lon IS NOT NULL) OR city <> ''")
	if lookback > 0 {
		q = q.Where("created_at > ?", time.Now().Add(-lookback))
	}

	var batch []models.Transport
	return q.FindInBatches(&batch, CandidateBatchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

func (r *TransportRepositoryImpl) StreamActive(fn func(batch []models.Transport) error) error {
	var batch []models.Transport
	return r.db.Where("is_active = ?", true).
		FindInBatches(&batch, CandidateBatchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}
