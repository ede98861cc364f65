package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cargolink_backend/internal/models"
)

func seedOverdueTransport(t *testing.T, db *gorm.DB, email, readyTo string) *models.Transport {
	t.Helper()
	owner := &models.User{Email: email, PasswordHash: "x", Role: models.UserRoleCarrier, Status: models.UserStatusActive}
	require.NoError(t, db.Create(owner).Error)

	transport := &models.Transport{
		OwnerID:       owner.ID,
		IsActive:      true,
		TruckType:     "тент",
		City:          "Тбилиси",
		ReadyDateFrom: "2024-01-01",
		ReadyDateTo:   readyTo,
	}
	require.NoError(t, db.Create(transport).Error)
	return transport
}

func notificationsOfType(t *testing.T, db *gorm.DB, notifType models.NotificationType) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	require.NoError(t, db.Where("type = ?", notifType).Find(&notifications).Error)
	return notifications
}

func TestSweepOverdueTiers(t *testing.T) {
	env := newWorkerTestEnv(t)
	now, err := time.Parse("2006-01-02", "2024-06-10")
	require.NoError(t, err)

	day2 := seedOverdueTransport(t, env.db, "d2@test.com", "2024-06-08")   // 2 дня
	day5 := seedOverdueTransport(t, env.db, "d5@test.com", "2024-06-05")   // 5 дней
	day8 := seedOverdueTransport(t, env.db, "d8@test.com", "2024-06-02")   // 8 дней
	fresh := seedOverdueTransport(t, env.db, "ok@test.com", "2024-06-20")  // ещё не истёк
	perm := seedOverdueTransport(t, env.db, "perm@test.com", "2024-06-01") // постоянный режим
	require.NoError(t, env.db.Model(perm).Update("mode", "постоянно").Error)

	worker := NewTransportWorker(env.transportRepo, env.notificationSvc, env.cfg)
	require.NoError(t, worker.SweepOverdue(now))

	tier1 := notificationsOfType(t, env.db, models.NotificationTypeTransportOverdue1)
	require.Len(t, tier1, 1, "Просрочка 2 дня — первое напоминание")
	assert.Equal(t, day2.ID, tier1[0].RelatedID)

	tier4 := notificationsOfType(t, env.db, models.NotificationTypeTransportOverdue4)
	require.Len(t, tier4, 1, "Просрочка 5 дней — второе напоминание")
	assert.Equal(t, day5.ID, tier4[0].RelatedID)

	tier7 := notificationsOfType(t, env.db, models.NotificationTypeTransportOverdue7)
	require.Len(t, tier7, 1, "Просрочка 8 дней — последнее напоминание")
	assert.Equal(t, day8.ID, tier7[0].RelatedID)

	disabled := notificationsOfType(t, env.db, models.NotificationTypeTransportAutoDisabled)
	require.Len(t, disabled, 1, "На 7-й день объявление снимается")
	assert.Equal(t, day8.ID, disabled[0].RelatedID)

	var reloaded models.Transport
	require.NoError(t, env.db.First(&reloaded, "id = ?", day8.ID).Error)
	assert.False(t, reloaded.IsActive, "Просроченный на 7+ дней транспорт деактивирован")

	var reloadedFresh models.Transport
	require.NoError(t, env.db.First(&reloadedFresh, "id = ?", fresh.ID).Error)
	assert.True(t, reloadedFresh.IsActive, "Непросроченный транспорт не трогаем")

	var reloadedPerm models.Transport
	require.NoError(t, env.db.First(&reloadedPerm, "id = ?", perm.ID).Error)
	assert.True(t, reloadedPerm.IsActive, "Режим 'постоянно' не просрочивается")
}

func TestSweepOverdueRepeatSuppressedByDedup(t *testing.T) {
	env := newWorkerTestEnv(t)
	now, err := time.Parse("2006-01-02", "2024-06-10")
	require.NoError(t, err)

	seedOverdueTransport(t, env.db, "d2@test.com", "2024-06-08")

	worker := NewTransportWorker(env.transportRepo, env.notificationSvc, env.cfg)
	require.NoError(t, worker.SweepOverdue(now))
	require.NoError(t, worker.SweepOverdue(now.Add(time.Hour)))

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "Повторный проход в пределах суток не дублирует напоминание")
}

func TestSweepOverdueSkipsUnparsableDate(t *testing.T) {
	env := newWorkerTestEnv(t)
	now := time.Now()

	seedOverdueTransport(t, env.db, "broken@test.com", "когда-нибудь")
	seedOverdueTransport(t, env.db, "d2@test.com", now.AddDate(0, 0, -2).Format("2006-01-02"))

	worker := NewTransportWorker(env.transportRepo, env.notificationSvc, env.cfg)
	require.NoError(t, worker.SweepOverdue(now), "Сломанная дата не прерывает обход")

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "Обработан только валидный кандидат")
}
