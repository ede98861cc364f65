package repositories

import (
	"errors"
	"time"

	"cargolink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// CandidateBatchSize — размер страницы при потоковом обходе кандидатов.
// Полный результат в память не поднимается никогда.
const CandidateBatchSize = 256

type OrderRepository interface {
	Create(order *models.Order) error
	Update(order *models.Order) error
	FindByID(id string) (*models.Order, error)
	FindByOwner(ownerID string, limit, offset int) ([]models.Order, int64, error)
	SetActive(id string, active bool) error

	// StreamMatchable постранично обходит активные заявки, пригодные
	// для гео-подбора (есть хотя бы одна точка погрузки). lookback
	// ограничивает давность создания; значение <= 0 отключает фильтр.
	StreamMatchable(lookback time.Duration, fn func(batch []models.Order) error) error
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// Update перезаписывает заявку вместе с точками погрузки: старые
// точки удаляются, иначе замена набора оставит осиротевшие строки.
func (r *OrderRepositoryImpl) Update(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLocation{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	})
}

func (r *OrderRepositoryImpl) FindByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Locations").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByOwner(ownerID string, limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	q := r.db.Model(&models.Order{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Locations").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepositoryImpl) SetActive(id string, active bool) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepositoryImpl) StreamMatchable(lookback time.Duration, fn func(batch []models.Order) error) error {
	q := r.db.Preload("Locations").
		Where("is_active = ?", true).
		Where("EXISTS (SELECT 1 FROM order_locations WHERE order_locations.order_id = orders.id)")
	if lookback > 0 {
		q = q.Where("orders.created_at > ?", time.Now().Add(-lookback))
	}

	var batch []models.Order
	return q.FindInBatches(&batch, CandidateBatchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}
