package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cargolink_backend/internal/config"
	"cargolink_backend/internal/logger"
	"cargolink_backend/internal/matching"
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services/dto"
)

// errStopStream прерывает FindInBatches, когда лимит уведомлений
// выбран или контекст отменён. Не является ошибкой запуска.
var errStopStream = errors.New("stop stream")

type MatchingService interface {
	// Подбор для отображения: без лимита и без побочных эффектов.
	FindMatchesForOrder(orderID string, excludeOwnerID string) ([]dto.TransportMatch, error)
	FindMatchesForTransport(transportID string, excludeOwnerID string) ([]dto.OrderMatch, error)

	// Подбор с рассылкой: уведомляется владелец кандидата, ссылка — на субъект.
	// Остановка после cfg.Matching.NotifyCap успешно созданных уведомлений.
	NotifyMatchesForOrder(ctx context.Context, orderID string) error
	NotifyMatchesForTransport(ctx context.Context, transportID string) error
}

type matchingService struct {
	orderRepo       repositories.OrderRepository
	transportRepo   repositories.TransportRepository
	blockRepo       repositories.BlockRepository
	notificationSvc NotificationService
	cfg             *config.Config
}

func NewMatchingService(
	orderRepo repositories.OrderRepository,
	transportRepo repositories.TransportRepository,
	blockRepo repositories.BlockRepository,
	notificationSvc NotificationService,
	cfg *config.Config,
) MatchingService {
	return &matchingService{
		orderRepo:       orderRepo,
		transportRepo:   transportRepo,
		blockRepo:       blockRepo,
		notificationSvc: notificationSvc,
		cfg:             cfg,
	}
}

// ---------------- Общее ядро фильтрации ----------------

// matchPair выполняет полную проверку пары транспорт/заявка:
// владелец, тип кузова, окно дат, география. Блокировки проверяются
// отдельно (им нужен поход в базу, здесь только чистые проверки).
func (s *matchingService) matchPair(t *models.Transport, o *models.Order) (matching.GeoResult, bool, error) {
	if t.OwnerID == o.OwnerID {
		return matching.GeoResult{}, false, nil
	}
	if !matching.TruckTypesCompatible(matching.CanonTruckType(t.TruckType), matching.CanonTruckType(o.TruckType)) {
		return matching.GeoResult{}, false, nil
	}

	dateOK, err := matching.TransportDateOK(t, o)
	if err != nil {
		return matching.GeoResult{}, false, fmt.Errorf("date check failed: %w", err)
	}
	if !dateOK {
		return matching.GeoResult{}, false, nil
	}

	geo := matching.MatchGeo(t, o, s.cfg.Matching.DefaultOrderRadiusKm)
	if !geo.Matched {
		return matching.GeoResult{}, false, nil
	}
	return geo, true, nil
}

// blockChecker кэширует ответы BlockRepository в пределах одного
// прогона: внутри прогона отношение блокировки неизменно.
type blockChecker struct {
	repo  repositories.BlockRepository
	cache map[string]bool
}

func newBlockChecker(repo repositories.BlockRepository) *blockChecker {
	return &blockChecker{repo: repo, cache: make(map[string]bool)}
}

func (c *blockChecker) blocked(a, b string) (bool, error) {
	key := a + "|" + b
	if a > b {
		key = b + "|" + a
	}
	if v, ok := c.cache[key]; ok {
		return v, nil
	}
	v, err := c.repo.IsBlockedPair(a, b)
	if err != nil {
		return false, err
	}
	c.cache[key] = v
	return v, nil
}

func displayDistance(geo matching.GeoResult) *float64 {
	if math.IsInf(geo.DistanceKm, 1) {
		return nil
	}
	d := geo.DistanceKm
	return &d
}

// ---------------- Подбор для отображения ----------------

func (s *matchingService) FindMatchesForOrder(orderID string, excludeOwnerID string) ([]dto.TransportMatch, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	blocks := newBlockChecker(s.blockRepo)
	seen := make(map[string]bool)
	matches := []dto.TransportMatch{}

	err = s.transportRepo.StreamMatchable(s.cfg.Lookback(), func(batch []models.Transport) error {
		for i := range batch {
			t := &batch[i]
			if seen[t.ID] {
				continue
			}
			if excludeOwnerID != "" && t.OwnerID == excludeOwnerID {
				continue
			}

			geo, ok, err := s.matchPair(t, order)
			if err != nil {
				logger.WithError(err).Warn("Кандидат пропущен при подборе", "transport_id", t.ID, "order_id", order.ID)
				continue
			}
			if !ok {
				continue
			}

			isBlocked, err := blocks.blocked(t.OwnerID, order.OwnerID)
			if err != nil {
				return err
			}
			if isBlocked {
				continue
			}

			seen[t.ID] = true
			matches = append(matches, dto.TransportMatch{
				Transport:  dto.ToTransportResponse(t),
				Reason:     string(geo.Reason),
				DistanceKm: displayDistance(geo),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *matchingService) FindMatchesForTransport(transportID string, excludeOwnerID string) ([]dto.OrderMatch, error) {
	transport, err := s.transportRepo.FindByID(transportID)
	if err != nil {
		return nil, err
	}

	blocks := newBlockChecker(s.blockRepo)
	seen := make(map[string]bool)
	matches := []dto.OrderMatch{}

	err = s.orderRepo.StreamMatchable(s.cfg.Lookback(), func(batch []models.Order) error {
		for i := range batch {
			o := &batch[i]
			if seen[o.ID] {
				continue
			}
			if excludeOwnerID != "" && o.OwnerID == excludeOwnerID {
				continue
			}

			geo, ok, err := s.matchPair(transport, o)
			if err != nil {
				logger.WithError(err).Warn("Кандидат пропущен при подборе", "order_id", o.ID, "transport_id", transport.ID)
				continue
			}
			if !ok {
				continue
			}

			isBlocked, err := blocks.blocked(transport.OwnerID, o.OwnerID)
			if err != nil {
				return err
			}
			if isBlocked {
				continue
			}

			seen[o.ID] = true
			matches = append(matches, dto.OrderMatch{
				Order:      dto.ToOrderResponse(o),
				Reason:     string(geo.Reason),
				DistanceKm: displayDistance(geo),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ---------------- Подбор с рассылкой ----------------

func (s *matchingService) NotifyMatchesForOrder(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return err
	}
	if !order.IsActive || !order.Matchable() {
		return nil
	}

	blocks := newBlockChecker(s.blockRepo)
	notified := 0
	limit := s.cfg.Matching.NotifyCap

	err = s.transportRepo.StreamMatchable(s.cfg.Lookback(), func(batch []models.Transport) error {
		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := &batch[i]

			geo, ok, err := s.matchPair(t, order)
			if err != nil {
				logger.WithError(err).Warn("Кандидат пропущен при рассылке", "transport_id", t.ID, "order_id", order.ID)
				continue
			}
			if !ok {
				continue
			}

			isBlocked, err := blocks.blocked(t.OwnerID, order.OwnerID)
			if err != nil {
				return err
			}
			if isBlocked {
				continue
			}

			created, err := s.notificationSvc.NotifyOrderAutoMatch(t.OwnerID, order, geo)
			if err != nil {
				// Ошибка хранилища фатальна для прогона: без записи
				// в базе push потеряет единственный след уведомления.
				return err
			}
			if created {
				notified++
				if notified >= limit {
					logger.Info("Лимит уведомлений за прогон достигнут", "order_id", order.ID, "cap", limit)
					return errStopStream
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopStream) {
		return err
	}

	logger.Info("Рассылка по заказу завершена", "order_id", order.ID, "notified", notified)
	return nil
}

func (s *matchingService) NotifyMatchesForTransport(ctx context.Context, transportID string) error {
	transport, err := s.transportRepo.FindByID(transportID)
	if err != nil {
		return err
	}
	if !transport.IsActive || !transport.Matchable() {
		return nil
	}

	blocks := newBlockChecker(s.blockRepo)
	notified := 0
	limit := s.cfg.Matching.NotifyCap

	err = s.orderRepo.StreamMatchable(s.cfg.Lookback(), func(batch []models.Order) error {
		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := &batch[i]

			geo, ok, err := s.matchPair(transport, o)
			if err != nil {
				logger.WithError(err).Warn("Кандидат пропущен при рассылке", "order_id", o.ID, "transport_id", transport.ID)
				continue
			}
			if !ok {
				continue
			}

			isBlocked, err := blocks.blocked(transport.OwnerID, o.OwnerID)
			if err != nil {
				return err
			}
			if isBlocked {
				continue
			}

			created, err := s.notificationSvc.NotifyTransportAutoMatch(o.OwnerID, transport, o, geo)
			if err != nil {
				return err
			}
			if created {
				notified++
				if notified >= limit {
					logger.Info("Лимит уведомлений за прогон достигнут", "transport_id", transport.ID, "cap", limit)
					return errStopStream
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopStream) {
		return err
	}

	logger.Info("Рассылка по транспорту завершена", "transport_id", transport.ID, "notified", notified)
	return nil
}
