package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationType — вид уведомления. Политика дедупликации
// привязана к виду как данные (см. DedupWindow), а не как
// условия, разбросанные по коду.
type NotificationType string

const (
	NotificationTypeAutoMatch NotificationType = "auto_match"

	// Жизненный цикл транспорта
	NotificationTypeTransportOverdue1     NotificationType = "transport_overdue_1"
	NotificationTypeTransportOverdue4     NotificationType = "transport_overdue_4"
	NotificationTypeTransportOverdue7     NotificationType = "transport_overdue_7"
	NotificationTypeTransportAutoDisabled NotificationType = "transport_auto_disabled"

	// Прочие
	NotificationTypeContactOpen NotificationType = "contact_open"
	NotificationTypeNewReview   NotificationType = "new_review"
	NotificationTypeNewMessage  NotificationType = "new_message"
)

// dedupWindows: окно, в пределах которого повтор уведомления того же
// вида для той же пары (user_id, related_id) подавляется.
// Виды, которых нет в таблице, не дедуплицируются.
var dedupWindows = map[NotificationType]time.Duration{
	NotificationTypeAutoMatch:             7 * 24 * time.Hour,
	NotificationTypeTransportOverdue1:     24 * time.Hour,
	NotificationTypeTransportOverdue4:     24 * time.Hour,
	NotificationTypeTransportOverdue7:     24 * time.Hour,
	NotificationTypeTransportAutoDisabled: 24 * time.Hour,
}

// DedupWindow возвращает окно дедупликации вида (0 — без дедупликации).
func (t NotificationType) DedupWindow() time.Duration {
	return dedupWindows[t]
}

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeAutoMatch,
		NotificationTypeTransportOverdue1,
		NotificationTypeTransportOverdue4,
		NotificationTypeTransportOverdue7,
		NotificationTypeTransportAutoDisabled,
		NotificationTypeContactOpen,
		NotificationTypeNewReview,
		NotificationTypeNewMessage:
		return true
	}
	return false
}

// Notification — запись журнала уведомлений (append-only).
// Message для матч-уведомлений хранит тройку "<i18n_key>|<json_params>|<fallback>",
// формат закреплён за внешними потребителями и меняться не должен.
type Notification struct {
	BaseModel
	UserID    string           `gorm:"type:uuid;not null;index:idx_notif_user;index:idx_notif_dedup" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(50);not null;index:idx_notif_dedup" json:"type"`
	Message   string           `gorm:"type:text" json:"message"`
	RelatedID string           `gorm:"type:varchar(64);index:idx_notif_dedup" json:"related_id"`
	// DedupKey — "<user>|<type>|<related>|<номер окна>"; NULL для видов
	// без дедупликации. Уникальный индекс — страховка условной вставки
	// от параллельных воркеров (см. NotificationRepository.CreateDeduped).
	DedupKey  *string          `gorm:"type:varchar(191);uniqueIndex:idx_notif_dedup_key" json:"-"`
	Payload   datatypes.JSON   `json:"payload"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
}
