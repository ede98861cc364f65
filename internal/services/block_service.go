package services

import (
	"errors"

	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
)

var ErrSelfBlock = errors.New("cannot block yourself")

type BlockService interface {
	Block(blockerID, blockedID, reason string) error
	Unblock(blockerID, blockedID string) error
	ListBlocked(blockerID string) ([]models.UserBlock, error)
	IsBlockedPair(a, b string) (bool, error)
}

type blockService struct {
	blockRepo repositories.BlockRepository
	userRepo  repositories.UserRepository
}

func NewBlockService(blockRepo repositories.BlockRepository, userRepo repositories.UserRepository) BlockService {
	return &blockService{blockRepo: blockRepo, userRepo: userRepo}
}

func (s *blockService) Block(blockerID, blockedID, reason string) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}
	if _, err := s.userRepo.FindByID(blockedID); err != nil {
		return err
	}
	return s.blockRepo.Create(&models.UserBlock{
		BlockerID: blockerID,
		BlockedID: blockedID,
		Reason:    reason,
	})
}

func (s *blockService) Unblock(blockerID, blockedID string) error {
	return s.blockRepo.Delete(blockerID, blockedID)
}

func (s *blockService) ListBlocked(blockerID string) ([]models.UserBlock, error) {
	return s.blockRepo.ListByBlocker(blockerID)
}

func (s *blockService) IsBlockedPair(a, b string) (bool, error) {
	return s.blockRepo.IsBlockedPair(a, b)
}
