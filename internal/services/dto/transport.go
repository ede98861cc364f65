package dto

import "cargolink_backend/internal/models"

type CreateTransportRequest struct {
	TruckType     string   `json:"truck_type" validate:"required,max=50"`
	City          string   `json:"city" validate:"max=100"`
	Lat           *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon           *float64 `json:"lon" validate:"omitempty,longitude"`
	FromRadius    float64  `json:"from_radius" validate:"gte=0"`
	ReadyDateFrom string   `json:"ready_date_from" validate:"omitempty,flexdate"`
	ReadyDateTo   string   `json:"ready_date_to" validate:"omitempty,flexdate"`
	Mode          string   `json:"mode" validate:"max=50"`
	Regularity    string   `json:"regularity" validate:"max=50"`
	CapacityTons  float64  `json:"capacity_tons" validate:"gte=0"`
	Comment       string   `json:"comment" validate:"max=1000"`
}

type UpdateTransportRequest struct {
	TruckType     *string  `json:"truck_type" validate:"omitempty,max=50"`
	City          *string  `json:"city" validate:"omitempty,max=100"`
	Lat           *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon           *float64 `json:"lon" validate:"omitempty,longitude"`
	FromRadius    *float64 `json:"from_radius" validate:"omitempty,gte=0"`
	ReadyDateFrom *string  `json:"ready_date_from" validate:"omitempty,flexdate"`
	ReadyDateTo   *string  `json:"ready_date_to" validate:"omitempty,flexdate"`
	Mode          *string  `json:"mode" validate:"omitempty,max=50"`
	Regularity    *string  `json:"regularity" validate:"omitempty,max=50"`
	CapacityTons  *float64 `json:"capacity_tons" validate:"omitempty,gte=0"`
	Comment       *string  `json:"comment" validate:"omitempty,max=1000"`
}

type TransportResponse struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	IsActive      bool     `json:"is_active"`
	TruckType     string   `json:"truck_type"`
	City          string   `json:"city"`
	Lat           *float64 `json:"lat"`
	Lon           *float64 `json:"lon"`
	FromRadius    float64  `json:"from_radius"`
	ReadyDateFrom string   `json:"ready_date_from"`
	ReadyDateTo   string   `json:"ready_date_to"`
	Mode          string   `json:"mode"`
	Regularity    string   `json:"regularity"`
	CapacityTons  float64  `json:"capacity_tons"`
	Comment       string   `json:"comment"`
	CreatedAt     string   `json:"created_at"`
}

func ToTransportResponse(t *models.Transport) TransportResponse {
	return TransportResponse{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		IsActive:      t.IsActive,
		TruckType:     t.TruckType,
		City:          t.City,
		Lat:           t.Lat,
		Lon:           t.Lon,
		FromRadius:    t.FromRadius,
		ReadyDateFrom: t.ReadyDateFrom,
		ReadyDateTo:   t.ReadyDateTo,
		Mode:          t.Mode,
		Regularity:    t.Regularity,
		CapacityTons:  t.CapacityTons,
		Comment:       t.Comment,
		CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
