package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"cargolink_backend/internal/logger"
	"cargolink_backend/internal/matching"
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services/dto"
)

// PushGateway доставляет событие на все активные соединения пользователя.
// Реализация никогда не возвращает ошибку: офлайн-пользователь — это норма,
// уведомление его дождётся в базе.
type PushGateway interface {
	Push(userID string, payload any)
}

var (
	ErrAccessDenied            = errors.New("access denied")
	ErrUnknownNotificationType = errors.New("unknown notification type")
)

type NotificationService interface {
	Create(userID string, notifType models.NotificationType, message, relatedID string, payload map[string]any) (*models.Notification, error)
	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkMultipleAsRead(userID string, notificationIDs []string) (int64, error)
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string, notifType models.NotificationType, relatedID string) (int64, error)

	// Фабрики для авто-подбора: возвращают true, если уведомление
	// действительно создано (не подавлено окном дедупликации).
	NotifyOrderAutoMatch(ownerID string, order *models.Order, geo matching.GeoResult) (bool, error)
	NotifyTransportAutoMatch(ownerID string, transport *models.Transport, order *models.Order, geo matching.GeoResult) (bool, error)

	NotifyTransportOverdue(ownerID string, transport *models.Transport, tier int) (bool, error)
	NotifyTransportAutoDisabled(ownerID string, transport *models.Transport) (bool, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	push             PushGateway
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, push PushGateway) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		push:             push,
	}
}

// ---------------- Основные операции ----------------

// Create сохраняет уведомление с учётом окна дедупликации его типа.
// Возвращает (nil, nil), если дубликат в окне подавил вставку.
// Push выполняется асинхронно и только после успешной вставки.
func (s *notificationService) Create(userID string, notifType models.NotificationType, message, relatedID string, payload map[string]any) (*models.Notification, error) {
	if !notifType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNotificationType, notifType)
	}

	var payloadJSON datatypes.JSON
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
		}
		payloadJSON = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		UserID:    userID,
		Type:      notifType,
		Message:   message,
		RelatedID: relatedID,
		Payload:   payloadJSON,
		IsRead:    false,
	}

	inserted, err := s.notificationRepo.CreateDeduped(notification, notifType.DedupWindow())
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}

	if s.push != nil {
		go s.push.Push(userID, map[string]any{
			"id":         notification.ID,
			"type":       notification.Type,
			"message":    notification.Message,
			"related_id": notification.RelatedID,
			"payload":    payload,
			"created_at": notification.CreatedAt,
			"read":       false,
		})
	}

	return notification, nil
}

func (s *notificationService) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.GetUnreadCount(userID, "", "")
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = repositories.DefaultNotificationPageSize
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) MarkMultipleAsRead(userID string, notificationIDs []string) (int64, error) {
	if len(notificationIDs) == 0 {
		return 0, nil
	}
	return s.notificationRepo.MarkMultipleAsRead(userID, notificationIDs)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

// GetUnreadCount считает непрочитанные; пустые notifType/relatedID
// означают «без фильтра».
func (s *notificationService) GetUnreadCount(userID string, notifType models.NotificationType, relatedID string) (int64, error) {
	if notifType != "" && !notifType.Valid() {
		return 0, ErrUnknownNotificationType
	}
	return s.notificationRepo.GetUnreadCount(userID, notifType, relatedID)
}

// ---------------- Фабрики авто-подбора ----------------

// NotifyOrderAutoMatch — владельцу транспорта о подходящем заказе.
// RelatedID — id заказа: повторный подбор того же заказа в течение
// недели не создаст второе уведомление.
func (s *notificationService) NotifyOrderAutoMatch(ownerID string, order *models.Order, geo matching.GeoResult) (bool, error) {
	message := buildAutoMatchMessage("notification.auto_match.order", order.RouteLabel(), order.LoadDate, order.TruckType,
		fmt.Sprintf("Найден подходящий заказ: %s", order.RouteLabel()), geo.Reason)

	payload := map[string]any{
		"entity":     "order",
		"target_url": fmt.Sprintf("/orders/%s", order.ID),
	}

	notification, err := s.Create(ownerID, models.NotificationTypeAutoMatch, message, order.ID, payload)
	if err != nil {
		return false, err
	}
	return notification != nil, nil
}

// NotifyTransportAutoMatch — владельцу заказа о подходящем транспорте.
// Маршрут и дата берутся из заказа, тип кузова — из транспорта.
func (s *notificationService) NotifyTransportAutoMatch(ownerID string, transport *models.Transport, order *models.Order, geo matching.GeoResult) (bool, error) {
	message := buildAutoMatchMessage("notification.auto_match.transport", order.RouteLabel(), order.LoadDate, transport.TruckType,
		fmt.Sprintf("Найден подходящий транспорт: %s", transport.TruckType), geo.Reason)

	payload := map[string]any{
		"entity":     "transport",
		"target_url": fmt.Sprintf("/transports/%s", transport.ID),
	}

	notification, err := s.Create(ownerID, models.NotificationTypeAutoMatch, message, transport.ID, payload)
	if err != nil {
		return false, err
	}
	return notification != nil, nil
}

// ---------------- Фабрики просрочки ----------------

func (s *notificationService) NotifyTransportOverdue(ownerID string, transport *models.Transport, tier int) (bool, error) {
	var notifType models.NotificationType
	switch tier {
	case 1:
		notifType = models.NotificationTypeTransportOverdue1
	case 4:
		notifType = models.NotificationTypeTransportOverdue4
	case 7:
		notifType = models.NotificationTypeTransportOverdue7
	default:
		return false, fmt.Errorf("unknown overdue tier: %d", tier)
	}

	message := fmt.Sprintf("Срок готовности транспорта «%s» истёк %d дн. назад. Обновите даты, чтобы объявление осталось в подборе", transport.TruckType, tier)

	notification, err := s.Create(ownerID, notifType, message, transport.ID, map[string]any{
		"entity":     "transport",
		"target_url": fmt.Sprintf("/transports/%s", transport.ID),
	})
	if err != nil {
		return false, err
	}
	return notification != nil, nil
}

func (s *notificationService) NotifyTransportAutoDisabled(ownerID string, transport *models.Transport) (bool, error) {
	message := fmt.Sprintf("Объявление транспорта «%s» снято с публикации: даты готовности не обновлялись", transport.TruckType)

	notification, err := s.Create(ownerID, models.NotificationTypeTransportAutoDisabled, message, transport.ID, map[string]any{
		"entity":     "transport",
		"target_url": fmt.Sprintf("/transports/%s", transport.ID),
	})
	if err != nil {
		return false, err
	}
	return notification != nil, nil
}

// ---------------- Helpers ----------------

// buildAutoMatchMessage собирает сообщение формата "<ключ>|<json-параметры>|<fallback>".
// Клиент локализует по ключу, fallback показывается старым версиям.
func buildAutoMatchMessage(key, route, date, truckType, fallback string, reason matching.MatchReason) string {
	params := map[string]string{
		"route":     route,
		"date":      date,
		"truckType": truckType,
	}
	raw, err := json.Marshal(params)
	if err != nil {
		logger.WithError(err).Warn("Не удалось сериализовать параметры уведомления")
		raw = []byte("{}")
	}
	return key + "|" + string(raw) + "|" + fallback + matchReasonSuffix(reason)
}

func matchReasonSuffix(reason matching.MatchReason) string {
	switch reason {
	case matching.ReasonTransportRadius:
		return " · matched by transport radius"
	case matching.ReasonOrderRadius:
		return " · matched by order radius"
	case matching.ReasonCity:
		return " · matched by city"
	default:
		return ""
	}
}

func buildNotificationResponse(notification *models.Notification) dto.NotificationResponse {
	response := dto.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Message:   notification.Message,
		RelatedID: notification.RelatedID,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Payload) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(notification.Payload, &payload); err == nil {
			response.Payload = payload
		}
	}

	return response
}
