package models

// Transport — объявление о свободном транспорте.
// Доступность задаётся либо окном [ReadyDateFrom, ReadyDateTo],
// либо режимом "постоянно" (Mode), который отключает проверку дат.
type Transport struct {
	BaseModel
	OwnerID    string   `gorm:"type:uuid;not null;index" json:"owner_id"`
	IsActive   bool     `gorm:"default:true;index" json:"is_active"`
	TruckType  string   `gorm:"type:varchar(100)" json:"truck_type"`
	City       string   `gorm:"type:varchar(100)" json:"city"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	FromRadius float64  `json:"from_radius"` // км; радиус подачи от точки стоянки

	ReadyDateFrom string `gorm:"type:varchar(20)" json:"ready_date_from"`
	ReadyDateTo   string `gorm:"type:varchar(20)" json:"ready_date_to"`
	Mode          string `gorm:"type:varchar(50)" json:"mode"`       // "постоянно", "always", ...
	Regularity    string `gorm:"type:varchar(50)" json:"regularity"` // разовая / регулярная подача

	CapacityTons float64 `json:"capacity_tons"`
	Comment      string  `gorm:"type:text" json:"comment"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (t *Transport) HasCoords() bool {
	return t.Lat != nil && t.Lon != nil
}

// Matchable сообщает, может ли транспорт участвовать в гео-подборе.
func (t *Transport) Matchable() bool {
	return t.HasCoords() || t.City != ""
}
