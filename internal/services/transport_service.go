package services

import (
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services/dto"
)

type TransportService interface {
	Create(ownerID string, req *dto.CreateTransportRequest) (*dto.TransportResponse, error)
	Update(ownerID, transportID string, req *dto.UpdateTransportRequest) (*dto.TransportResponse, error)
	GetByID(transportID string) (*dto.TransportResponse, error)
	ListByOwner(ownerID string, limit, offset int) ([]dto.TransportResponse, int64, error)
	SetActive(ownerID, transportID string, active bool) error
}

type transportService struct {
	transportRepo repositories.TransportRepository
	enqueuer      MatchEnqueuer
}

func NewTransportService(transportRepo repositories.TransportRepository, enqueuer MatchEnqueuer) TransportService {
	return &transportService{transportRepo: transportRepo, enqueuer: enqueuer}
}

func (s *transportService) Create(ownerID string, req *dto.CreateTransportRequest) (*dto.TransportResponse, error) {
	transport := &models.Transport{
		OwnerID:       ownerID,
		IsActive:      true,
		TruckType:     req.TruckType,
		City:          req.City,
		Lat:           req.Lat,
		Lon:           req.Lon,
		FromRadius:    req.FromRadius,
		ReadyDateFrom: req.ReadyDateFrom,
		ReadyDateTo:   req.ReadyDateTo,
		Mode:          req.Mode,
		Regularity:    req.Regularity,
		CapacityTons:  req.CapacityTons,
		Comment:       req.Comment,
	}

	if err := s.transportRepo.Create(transport); err != nil {
		return nil, err
	}

	if s.enqueuer != nil {
		s.enqueuer.Enqueue(MatchKindTransport, transport.ID)
	}

	resp := dto.ToTransportResponse(transport)
	return &resp, nil
}

func (s *transportService) Update(ownerID, transportID string, req *dto.UpdateTransportRequest) (*dto.TransportResponse, error) {
	transport, err := s.transportRepo.FindByID(transportID)
	if err != nil {
		return nil, err
	}
	if transport.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	if req.TruckType != nil {
		transport.TruckType = *req.TruckType
	}
	if req.City != nil {
		transport.City = *req.City
	}
	if req.Lat != nil {
		transport.Lat = req.Lat
	}
	if req.Lon != nil {
		transport.Lon = req.Lon
	}
	if req.FromRadius != nil {
		transport.FromRadius = *req.FromRadius
	}
	if req.ReadyDateFrom != nil {
		transport.ReadyDateFrom = *req.ReadyDateFrom
	}
	if req.ReadyDateTo != nil {
		transport.ReadyDateTo = *req.ReadyDateTo
	}
	if req.Mode != nil {
		transport.Mode = *req.Mode
	}
	if req.Regularity != nil {
		transport.Regularity = *req.Regularity
	}
	if req.CapacityTons != nil {
		transport.CapacityTons = *req.CapacityTons
	}
	if req.Comment != nil {
		transport.Comment = *req.Comment
	}

	if err := s.transportRepo.Update(transport); err != nil {
		return nil, err
	}

	if s.enqueuer != nil && transport.IsActive {
		s.enqueuer.Enqueue(MatchKindTransport, transport.ID)
	}

	resp := dto.ToTransportResponse(transport)
	return &resp, nil
}

func (s *transportService) GetByID(transportID string) (*dto.TransportResponse, error) {
	transport, err := s.transportRepo.FindByID(transportID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToTransportResponse(transport)
	return &resp, nil
}

func (s *transportService) ListByOwner(ownerID string, limit, offset int) ([]dto.TransportResponse, int64, error) {
	transports, total, err := s.transportRepo.FindByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]dto.TransportResponse, 0, len(transports))
	for i := range transports {
		responses = append(responses, dto.ToTransportResponse(&transports[i]))
	}
	return responses, total, nil
}

func (s *transportService) SetActive(ownerID, transportID string, active bool) error {
	transport, err := s.transportRepo.FindByID(transportID)
	if err != nil {
		return err
	}
	if transport.OwnerID != ownerID {
		return ErrAccessDenied
	}

	if err := s.transportRepo.SetActive(transportID, active); err != nil {
		return err
	}

	if active && s.enqueuer != nil {
		s.enqueuer.Enqueue(MatchKindTransport, transportID)
	}
	return nil
}
