package repositories

import (
	"cargolink_backend/internal/models"

	"gorm.io/gorm"
)

type BlockRepository interface {
	Create(block *models.UserBlock) error
	Delete(blockerID, blockedID string) error
	ListByBlocker(blockerID string) ([]models.UserBlock, error)

	// IsBlockedPair проверяет симметричное замыкание блокировки:
	// true, если ребро есть хотя бы в одном направлении.
	IsBlockedPair(a, b string) (bool, error)
}

type BlockRepositoryImpl struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &BlockRepositoryImpl{db: db}
}

func (r *BlockRepositoryImpl) Create(block *models.UserBlock) error {
	return r.db.Where("blocker_id = ? AND blocked_id = ?", block.BlockerID, block.BlockedID).
		FirstOrCreate(block).Error
}

func (r *BlockRepositoryImpl) Delete(blockerID, blockedID string) error {
	return r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.UserBlock{}).Error
}

func (r *BlockRepositoryImpl) ListByBlocker(blockerID string) ([]models.UserBlock, error) {
	var blocks []models.UserBlock
	err := r.db.Where("blocker_id = ?", blockerID).Order("created_at DESC").Find(&blocks).Error
	return blocks, err
}

func (r *BlockRepositoryImpl) IsBlockedPair(a, b string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
