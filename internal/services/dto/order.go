package dto

import "cargolink_backend/internal/models"

type OrderLocationInput struct {
	City string   `json:"city" validate:"required,max=100"`
	Lat  *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon  *float64 `json:"lon" validate:"omitempty,longitude"`
}

type CreateOrderRequest struct {
	TruckType  string               `json:"truck_type" validate:"required,max=50"`
	LoadDate   string               `json:"load_date" validate:"required,flexdate"`
	FromRadius float64              `json:"from_radius" validate:"gte=0"`
	ToCity     string               `json:"to_city" validate:"max=100"`
	WeightTons float64              `json:"weight_tons" validate:"gte=0"`
	Comment    string               `json:"comment" validate:"max=1000"`
	Locations  []OrderLocationInput `json:"locations" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	TruckType  *string              `json:"truck_type" validate:"omitempty,max=50"`
	LoadDate   *string              `json:"load_date" validate:"omitempty,flexdate"`
	FromRadius *float64             `json:"from_radius" validate:"omitempty,gte=0"`
	ToCity     *string              `json:"to_city" validate:"omitempty,max=100"`
	WeightTons *float64             `json:"weight_tons" validate:"omitempty,gte=0"`
	Comment    *string              `json:"comment" validate:"omitempty,max=1000"`
	Locations  []OrderLocationInput `json:"locations" validate:"omitempty,min=1,dive"`
}

type OrderResponse struct {
	ID         string                  `json:"id"`
	OwnerID    string                  `json:"owner_id"`
	IsActive   bool                    `json:"is_active"`
	TruckType  string                  `json:"truck_type"`
	LoadDate   string                  `json:"load_date"`
	FromRadius float64                 `json:"from_radius"`
	ToCity     string                  `json:"to_city"`
	WeightTons float64                 `json:"weight_tons"`
	Comment    string                  `json:"comment"`
	Locations  []OrderLocationResponse `json:"locations"`
	CreatedAt  string                  `json:"created_at"`
}

type OrderLocationResponse struct {
	City string   `json:"city"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	locs := make([]OrderLocationResponse, 0, len(o.Locations))
	for _, l := range o.Locations {
		locs = append(locs, OrderLocationResponse{City: l.City, Lat: l.Lat, Lon: l.Lon})
	}
	return OrderResponse{
		ID:         o.ID,
		OwnerID:    o.OwnerID,
		IsActive:   o.IsActive,
		TruckType:  o.TruckType,
		LoadDate:   o.LoadDate,
		FromRadius: o.FromRadius,
		ToCity:     o.ToCity,
		WeightTons: o.WeightTons,
		Comment:    o.Comment,
		Locations:  locs,
		CreatedAt:  o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
