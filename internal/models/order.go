package models

// Order — заявка на перевозку груза.
// Груз может иметь несколько точек погрузки (Locations);
// заявка без единой точки погрузки в подборе не участвует.
type Order struct {
	BaseModel
	OwnerID    string  `gorm:"type:uuid;not null;index" json:"owner_id"`
	IsActive   bool    `gorm:"default:true;index" json:"is_active"`
	TruckType  string  `gorm:"type:varchar(100)" json:"truck_type"`
	LoadDate   string  `gorm:"type:varchar(20)" json:"load_date"`
	FromRadius float64 `json:"from_radius"` // км; <= 0 означает "не задан"
	ToCity     string  `gorm:"type:varchar(100)" json:"to_city"`
	WeightTons float64 `json:"weight_tons"`
	Comment    string  `gorm:"type:text" json:"comment"`

	Locations []OrderLocation `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"locations"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// OrderLocation — точка погрузки заявки. Координаты опциональны:
// без них точка участвует только в fallback-сравнении по городу.
type OrderLocation struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	OrderID string   `gorm:"type:uuid;not null;index" json:"order_id"`
	City    string   `gorm:"type:varchar(100)" json:"city"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

func (l OrderLocation) HasCoords() bool {
	return l.Lat != nil && l.Lon != nil
}

// Matchable сообщает, может ли заявка вообще участвовать в гео-подборе.
func (o *Order) Matchable() bool {
	return len(o.Locations) > 0
}

// RouteLabel строит человекочитаемый маршрут для уведомлений.
func (o *Order) RouteLabel() string {
	from := ""
	for _, l := range o.Locations {
		if l.City != "" {
			from = l.City
			break
		}
	}
	if o.ToCity == "" {
		return from
	}
	if from == "" {
		return o.ToCity
	}
	return from + " — " + o.ToCity
}
