package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cargolink_backend/database"
	"cargolink_backend/internal/config"
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
)

// newTestDB поднимает чистую in-memory SQLite с миграциями.
// Уникальное имя базы изолирует параллельные тесты друг от друга.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть тестовую базу")
	require.NoError(t, database.AutoMigrate(db), "Не удалось выполнить миграции")
	return db
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Matching.DefaultOrderRadiusKm = 80
	cfg.Matching.LookbackDays = 90
	cfg.Matching.NotifyCap = 50
	cfg.Matching.RunTimeoutSec = 120
	return cfg
}

// fakePush собирает вызовы PushGateway для проверок.
type fakePush struct {
	mu     sync.Mutex
	pushes []string
}

func (f *fakePush) Push(userID string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, userID)
}

func (f *fakePush) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         models.UserRoleShipper,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя")
	return user
}

func ptr(v float64) *float64 { return &v }

// createTestOrder — заказ из Тбилиси с координатами и тентом,
// дата погрузки 10 июня 2024.
func createTestOrder(t *testing.T, db *gorm.DB, ownerID string) *models.Order {
	t.Helper()
	order := &models.Order{
		OwnerID:   ownerID,
		IsActive:  true,
		TruckType: "tent",
		LoadDate:  "2024-06-10",
		ToCity:    "Батуми",
		Locations: []models.OrderLocation{
			{City: "Тбилиси", Lat: ptr(41.72), Lon: ptr(44.77)},
		},
	}
	require.NoError(t, db.Create(order).Error, "Не удалось создать заказ")
	return order
}

// createTestTransport — транспорт в 1.4 км от точки заказа,
// радиус подачи 5 км, окно дат накрывает 10 июня.
func createTestTransport(t *testing.T, db *gorm.DB, ownerID string) *models.Transport {
	t.Helper()
	transport := &models.Transport{
		OwnerID:       ownerID,
		IsActive:      true,
		TruckType:     "тент",
		City:          "Тбилиси",
		Lat:           ptr(41.73),
		Lon:           ptr(44.78),
		FromRadius:    5,
		ReadyDateFrom: "01/06/2024",
		ReadyDateTo:   "20/06/2024",
	}
	require.NoError(t, db.Create(transport).Error, "Не удалось создать транспорт")
	return transport
}

type testEnv struct {
	db              *gorm.DB
	cfg             *config.Config
	push            *fakePush
	orderRepo       repositories.OrderRepository
	transportRepo   repositories.TransportRepository
	blockRepo       repositories.BlockRepository
	notificationSvc NotificationService
	matchingSvc     MatchingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	push := &fakePush{}

	orderRepo := repositories.NewOrderRepository(db)
	transportRepo := repositories.NewTransportRepository(db)
	blockRepo := repositories.NewBlockRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notificationSvc := NewNotificationService(notificationRepo, push)
	matchingSvc := NewMatchingService(orderRepo, transportRepo, blockRepo, notificationSvc, cfg)

	return &testEnv{
		db:              db,
		cfg:             cfg,
		push:            push,
		orderRepo:       orderRepo,
		transportRepo:   transportRepo,
		blockRepo:       blockRepo,
		notificationSvc: notificationSvc,
		matchingSvc:     matchingSvc,
	}
}

func (e *testEnv) notificationCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Notification{}).Count(&count).Error)
	return count
}

// ageNotification сдвигает уведомление в прошлое на age, как будто оно
// было создано тогда: вместе с created_at пересчитывается ключ
// дедупликации, иначе запись останется в текущей корзине окна.
func (e *testEnv) ageNotification(t *testing.T, n *models.Notification, age time.Duration) {
	t.Helper()
	past := time.Now().Add(-age)
	updates := map[string]interface{}{"created_at": past}
	if w := n.Type.DedupWindow(); w > 0 {
		updates["dedup_key"] = repositories.DedupKey(n.UserID, n.Type, n.RelatedID, w, past)
	}
	require.NoError(t, e.db.Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Updates(updates).Error)
}
