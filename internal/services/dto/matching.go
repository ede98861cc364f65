package dto

// TransportMatch — подходящий транспорт для заказа.
// DistanceKm равен nil, когда совпадение произошло по названию города
// и реальное расстояние неизвестно.
type TransportMatch struct {
	Transport  TransportResponse `json:"transport"`
	Reason     string            `json:"reason"`
	DistanceKm *float64          `json:"distance_km"`
}

// OrderMatch — подходящий заказ для транспорта.
type OrderMatch struct {
	Order      OrderResponse `json:"order"`
	Reason     string        `json:"reason"`
	DistanceKm *float64      `json:"distance_km"`
}
