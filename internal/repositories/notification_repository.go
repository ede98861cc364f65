package repositories

import (
	"errors"
	"fmt"
	"time"

	"cargolink_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

const DefaultNotificationPageSize = 20

// Критерии выборки уведомлений пользователя
type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
}

type NotificationRepository interface {
	// CreateNotification вставляет запись без дедупликации.
	CreateNotification(n *models.Notification) error

	// CreateDeduped вставляет запись, если за последние window не было
	// уведомления с той же тройкой (user_id, type, related_id).
	// Возвращает false, когда вставка подавлена дедупликацией.
	// Скользящее окно проверяется условной вставкой, гонку
	// конкурентных воркеров закрывает уникальный индекс по DedupKey:
	// на READ COMMITTED оба NOT EXISTS могут не увидеть чужую
	// незакоммиченную строку, конфликт по ключу — видят всегда.
	CreateDeduped(n *models.Notification, window time.Duration) (bool, error)

	FindNotificationByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)

	// MarkMultipleAsRead помечает прочитанными только записи владельца;
	// чужие id молча пропускаются. Возвращает число обновлённых строк.
	MarkMultipleAsRead(userID string, ids []string) (int64, error)
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string, notifType models.NotificationType, relatedID string) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(n *models.Notification) error {
	return r.db.Create(n).Error
}

// DedupKey — значение уникального ключа дедупликации: тройка плюс
// номер окна, в которое попадает момент at. Ключ даёт не скользящее,
// а «корзинное» подавление, поэтому работает в паре с NOT EXISTS,
// а не вместо него.
func DedupKey(userID string, notifType models.NotificationType, relatedID string, window time.Duration, at time.Time) string {
	bucket := at.Unix() / int64(window/time.Second)
	return fmt.Sprintf("%s|%s|%s|%d", userID, notifType, relatedID, bucket)
}

func (r *NotificationRepositoryImpl) CreateDeduped(n *models.Notification, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, r.db.Create(n).Error
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	key := DedupKey(n.UserID, n.Type, n.RelatedID, window, now)
	n.DedupKey = &key

	res := r.db.Exec(`
		INSERT INTO notifications (id, created_at, updated_at, user_id, type, message, related_id, payload, is_read, dedup_key)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = ? AND type = ? AND related_id = ? AND created_at > ?
		)
		ON CONFLICT (dedup_key) DO NOTHING`,
		n.ID, n.CreatedAt, n.UpdatedAt, n.UserID, n.Type, n.Message, n.RelatedID, n.Payload, false, key,
		n.UserID, n.Type, n.RelatedID, now.Add(-window),
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *NotificationRepositoryImpl) FindNotificationByID(id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	q := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if criteria.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		q = q.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = DefaultNotificationPageSize
	}

	var notifications []models.Notification
	err := q.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkMultipleAsRead(userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	now := time.Now()
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string, notifType models.NotificationType, relatedID string) (int64, error) {
	q := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false)
	if notifType != "" {
		q = q.Where("type = ?", notifType)
	}
	if relatedID != "" {
		q = q.Where("related_id = ?", relatedID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
