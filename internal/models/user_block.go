package models

// UserBlock — направленное ребро "кто кого заблокировал".
// Для подбора используется симметричное замыкание: если ребро есть
// в любом направлении, совпадения между парой подавляются.
type UserBlock struct {
	BaseModel
	BlockerID string `gorm:"type:uuid;not null;index:idx_block_pair,unique" json:"blocker_id"`
	BlockedID string `gorm:"type:uuid;not null;index:idx_block_pair,unique" json:"blocked_id"`
	Reason    string `gorm:"type:varchar(255)" json:"reason"`
}
