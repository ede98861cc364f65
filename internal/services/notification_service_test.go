package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargolink_backend/internal/matching"
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
)

func TestCreateAutoMatchDedupWindow(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	first, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-42", nil)
	require.NoError(t, err)
	require.NotNil(t, first, "Первое уведомление должно создаться")

	second, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-42", nil)
	require.NoError(t, err)
	assert.Nil(t, second, "Повтор в пределах 7 дней должен подавляться")
	assert.EqualValues(t, 1, env.notificationCount(t))

	// Спустя 8 дней дубликат допустим
	env.ageNotification(t, first, 8*24*time.Hour)

	third, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-42", nil)
	require.NoError(t, err)
	require.NotNil(t, third, "После истечения окна создаётся новая запись")
	assert.EqualValues(t, 2, env.notificationCount(t))
}

func TestCreateDedupScopedToRelatedID(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	first, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-1", nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	other, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-2", nil)
	require.NoError(t, err)
	assert.NotNil(t, other, "Другой related_id — отдельное уведомление")
}

func TestCreateOverdueDedup24h(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	first, err := env.notificationSvc.Create(user.ID, models.NotificationTypeTransportOverdue1, "msg", "tr-1", nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := env.notificationSvc.Create(user.ID, models.NotificationTypeTransportOverdue1, "msg", "tr-1", nil)
	require.NoError(t, err)
	assert.Nil(t, second, "Повтор в пределах суток подавляется")

	env.ageNotification(t, first, 25*time.Hour)

	third, err := env.notificationSvc.Create(user.ID, models.NotificationTypeTransportOverdue1, "msg", "tr-1", nil)
	require.NoError(t, err)
	assert.NotNil(t, third, "Спустя сутки напоминание повторяется")
}

// Два конкурентных воркера могут выполнить NOT EXISTS до коммита друг
// друга, и тогда условие пропускает обоих. Ключ окна обязан подавить
// вторую вставку даже в этом случае.
func TestCreateDedupKeySuppressesWhenConditionalInsertMisses(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	first, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-42", nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Сдвигаем только created_at: NOT EXISTS дубликата больше не видит,
	// но dedup_key записи остаётся в текущей корзине окна
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-8*24*time.Hour)).Error)

	second, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-42", nil)
	require.NoError(t, err)
	assert.Nil(t, second, "Конфликт по ключу окна подавляет вставку")
	assert.EqualValues(t, 1, env.notificationCount(t))
}

func TestCreateTypeWithoutDedupWindow(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	for i := 0; i < 3; i++ {
		n, err := env.notificationSvc.Create(user.ID, models.NotificationTypeNewMessage, "msg", "dialog-1", nil)
		require.NoError(t, err)
		require.NotNil(t, n, "Типы без окна дедупликации создаются всегда")
	}
	assert.EqualValues(t, 3, env.notificationCount(t))
}

func TestCreateRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	_, err := env.notificationSvc.Create(user.ID, models.NotificationType("bogus"), "msg", "", nil)
	require.Error(t, err, "Неизвестный тип уведомления отклоняется")
}

func TestCreatePushesAfterInsertOnly(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	_, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-1", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return env.push.count() == 1 },
		time.Second, 10*time.Millisecond, "Push должен уйти после вставки")

	// Подавленный дубликат не пушится
	_, err = env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-1", nil)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, env.push.count(), "Дубликат не должен генерировать push")
}

func TestNotifyOrderAutoMatchMessageFormat(t *testing.T) {
	env := newTestEnv(t)
	shipper := createTestUser(t, env.db, "shipper@test.com")
	carrier := createTestUser(t, env.db, "carrier@test.com")
	order := createTestOrder(t, env.db, shipper.ID)

	created, err := env.notificationSvc.NotifyOrderAutoMatch(carrier.ID, order, matching.GeoResult{
		Matched: true,
		Reason:  matching.ReasonTransportRadius,
	})
	require.NoError(t, err)
	require.True(t, created)

	var n models.Notification
	require.NoError(t, env.db.First(&n).Error)

	parts := strings.SplitN(n.Message, "|", 3)
	require.Len(t, parts, 3, "Сообщение в формате ключ|параметры|fallback")
	assert.Equal(t, "notification.auto_match.order", parts[0])

	var params map[string]string
	require.NoError(t, json.Unmarshal([]byte(parts[1]), &params))
	assert.Equal(t, order.RouteLabel(), params["route"])
	assert.Equal(t, "2024-06-10", params["date"])
	assert.Equal(t, "tent", params["truckType"])

	assert.True(t, strings.HasSuffix(parts[2], " · matched by transport radius"),
		"Fallback заканчивается причиной совпадения: %s", parts[2])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(n.Payload, &payload))
	assert.Equal(t, "order", payload["entity"])
	assert.Equal(t, "/orders/"+order.ID, payload["target_url"])
}

func TestNotifyTransportAutoMatchPayload(t *testing.T) {
	env := newTestEnv(t)
	shipper := createTestUser(t, env.db, "shipper@test.com")
	carrier := createTestUser(t, env.db, "carrier@test.com")
	order := createTestOrder(t, env.db, shipper.ID)
	transport := createTestTransport(t, env.db, carrier.ID)

	created, err := env.notificationSvc.NotifyTransportAutoMatch(shipper.ID, transport, order, matching.GeoResult{
		Matched: true,
		Reason:  matching.ReasonCity,
	})
	require.NoError(t, err)
	require.True(t, created)

	var n models.Notification
	require.NoError(t, env.db.First(&n).Error)
	assert.Equal(t, transport.ID, n.RelatedID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(n.Payload, &payload))
	assert.Equal(t, "transport", payload["entity"])
	assert.Equal(t, "/transports/"+transport.ID, payload["target_url"])
	assert.True(t, strings.Contains(n.Message, " · matched by city"))
}

func TestMarkMultipleAsReadOwnershipScoped(t *testing.T) {
	env := newTestEnv(t)
	alice := createTestUser(t, env.db, "alice@test.com")
	bob := createTestUser(t, env.db, "bob@test.com")

	mine, err := env.notificationSvc.Create(alice.ID, models.NotificationTypeNewMessage, "msg", "d1", nil)
	require.NoError(t, err)
	theirs, err := env.notificationSvc.Create(bob.ID, models.NotificationTypeNewMessage, "msg", "d2", nil)
	require.NoError(t, err)

	updated, err := env.notificationSvc.MarkMultipleAsRead(alice.ID, []string{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated, "Чужое уведомление молча пропускается")

	count, err := env.notificationSvc.GetUnreadCount(bob.ID, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "Уведомление Боба осталось непрочитанным")
}

func TestGetUnreadCountFilteredByTypeAndRelatedID(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	_, err := env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-1", nil)
	require.NoError(t, err)
	_, err = env.notificationSvc.Create(user.ID, models.NotificationTypeAutoMatch, "msg", "order-2", nil)
	require.NoError(t, err)
	_, err = env.notificationSvc.Create(user.ID, models.NotificationTypeNewMessage, "msg", "dialog-1", nil)
	require.NoError(t, err)

	count, err := env.notificationSvc.GetUnreadCount(user.ID, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "Без фильтра считаются все непрочитанные")

	count, err = env.notificationSvc.GetUnreadCount(user.ID, models.NotificationTypeAutoMatch, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "Фильтр по типу")

	count, err = env.notificationSvc.GetUnreadCount(user.ID, models.NotificationTypeAutoMatch, "order-2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "Фильтр по типу и related_id")

	count, err = env.notificationSvc.GetUnreadCount(user.ID, "", "dialog-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "Фильтр только по related_id")

	_, err = env.notificationSvc.GetUnreadCount(user.ID, "bogus", "")
	assert.ErrorIs(t, err, ErrUnknownNotificationType)
}

func TestMarkAllAsRead(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	for _, rel := range []string{"a", "b", "c"} {
		_, err := env.notificationSvc.Create(user.ID, models.NotificationTypeNewMessage, "msg", rel, nil)
		require.NoError(t, err)
	}

	require.NoError(t, env.notificationSvc.MarkAllAsRead(user.ID))

	count, err := env.notificationSvc.GetUnreadCount(user.ID, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	var n models.Notification
	require.NoError(t, env.db.First(&n).Error)
	assert.True(t, n.IsRead)
	assert.NotNil(t, n.ReadAt, "read_at проставляется при прочтении")
}

func TestGetUserNotificationsNewestFirstPaged(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	base := time.Now().Add(-time.Hour)
	for i, rel := range []string{"old", "mid", "new"} {
		n, err := env.notificationSvc.Create(user.ID, models.NotificationTypeNewMessage, "msg-"+rel, rel, nil)
		require.NoError(t, err)
		require.NoError(t, env.db.Model(&models.Notification{}).
			Where("id = ?", n.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	resp, err := env.notificationSvc.GetUserNotifications(user.ID, repositories.NotificationCriteria{Page: 1, PageSize: 2})
	require.NoError(t, err)

	assert.EqualValues(t, 3, resp.Total)
	assert.EqualValues(t, 3, resp.UnreadCount)
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "msg-new", resp.Notifications[0].Message, "Сначала самые новые")
	assert.Equal(t, "msg-mid", resp.Notifications[1].Message)

	resp2, err := env.notificationSvc.GetUserNotifications(user.ID, repositories.NotificationCriteria{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, resp2.Notifications, 1)
	assert.Equal(t, "msg-old", resp2.Notifications[0].Message)
}

func TestGetUserNotificationsUnreadOnlyFilter(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.db, "user@test.com")

	read, err := env.notificationSvc.Create(user.ID, models.NotificationTypeNewMessage, "read", "r1", nil)
	require.NoError(t, err)
	_, err = env.notificationSvc.Create(user.ID, models.NotificationTypeNewMessage, "unread", "r2", nil)
	require.NoError(t, err)

	_, err = env.notificationSvc.MarkMultipleAsRead(user.ID, []string{read.ID})
	require.NoError(t, err)

	resp, err := env.notificationSvc.GetUserNotifications(user.ID, repositories.NotificationCriteria{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "unread", resp.Notifications[0].Message)
}
