package services

import (
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services/dto"
)

// MatchEnqueuer ставит задачу авто-подбора в очередь воркера.
// Постановка неблокирующая: при переполненной очереди задача
// отбрасывается, запрос пользователя не ждёт.
type MatchEnqueuer interface {
	Enqueue(kind, id string)
}

const (
	MatchKindOrder     = "order"
	MatchKindTransport = "transport"
)

type OrderService interface {
	Create(ownerID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Update(ownerID, orderID string, req *dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	GetByID(orderID string) (*dto.OrderResponse, error)
	ListByOwner(ownerID string, limit, offset int) ([]dto.OrderResponse, int64, error)
	SetActive(ownerID, orderID string, active bool) error
}

type orderService struct {
	orderRepo repositories.OrderRepository
	enqueuer  MatchEnqueuer
}

func NewOrderService(orderRepo repositories.OrderRepository, enqueuer MatchEnqueuer) OrderService {
	return &orderService{orderRepo: orderRepo, enqueuer: enqueuer}
}

func (s *orderService) Create(ownerID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := &models.Order{
		OwnerID:    ownerID,
		IsActive:   true,
		TruckType:  req.TruckType,
		LoadDate:   req.LoadDate,
		FromRadius: req.FromRadius,
		ToCity:     req.ToCity,
		WeightTons: req.WeightTons,
		Comment:    req.Comment,
	}
	for _, loc := range req.Locations {
		order.Locations = append(order.Locations, models.OrderLocation{
			City: loc.City,
			Lat:  loc.Lat,
			Lon:  loc.Lon,
		})
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	if s.enqueuer != nil {
		s.enqueuer.Enqueue(MatchKindOrder, order.ID)
	}

	resp := dto.ToOrderResponse(order)
	return &resp, nil
}

func (s *orderService) Update(ownerID, orderID string, req *dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	if req.TruckType != nil {
		order.TruckType = *req.TruckType
	}
	if req.LoadDate != nil {
		order.LoadDate = *req.LoadDate
	}
	if req.FromRadius != nil {
		order.FromRadius = *req.FromRadius
	}
	if req.ToCity != nil {
		order.ToCity = *req.ToCity
	}
	if req.WeightTons != nil {
		order.WeightTons = *req.WeightTons
	}
	if req.Comment != nil {
		order.Comment = *req.Comment
	}
	if req.Locations != nil {
		order.Locations = order.Locations[:0]
		for _, loc := range req.Locations {
			order.Locations = append(order.Locations, models.OrderLocation{
				OrderID: order.ID,
				City:    loc.City,
				Lat:     loc.Lat,
				Lon:     loc.Lon,
			})
		}
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if s.enqueuer != nil && order.IsActive {
		s.enqueuer.Enqueue(MatchKindOrder, order.ID)
	}

	resp := dto.ToOrderResponse(order)
	return &resp, nil
}

func (s *orderService) GetByID(orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToOrderResponse(order)
	return &resp, nil
}

func (s *orderService) ListByOwner(ownerID string, limit, offset int) ([]dto.OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, dto.ToOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

func (s *orderService) SetActive(ownerID, orderID string, active bool) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return err
	}
	if order.OwnerID != ownerID {
		return ErrAccessDenied
	}

	if err := s.orderRepo.SetActive(orderID, active); err != nil {
		return err
	}

	// Повторная активация — повод для нового прогона подбора
	if active && s.enqueuer != nil {
		s.enqueuer.Enqueue(MatchKindOrder, orderID)
	}
	return nil
}
