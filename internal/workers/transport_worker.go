package workers

import (
	"time"

	"github.com/robfig/cron/v3"

	"cargolink_backend/internal/config"
	"cargolink_backend/internal/logger"
	"cargolink_backend/internal/matching"
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services"
)

// TransportWorker следит за сроками готовности транспорта: шлёт
// напоминания на 1-й, 4-й и 7-й день просрочки и на 7-й день снимает
// объявление с публикации. Окно дедупликации в 24 часа не даёт
// ежечасному расписанию заспамить владельца.
type TransportWorker struct {
	transportRepo   repositories.TransportRepository
	notificationSvc services.NotificationService
	cfg             *config.Config
	cron            *cron.Cron
}

func NewTransportWorker(
	transportRepo repositories.TransportRepository,
	notificationSvc services.NotificationService,
	cfg *config.Config,
) *TransportWorker {
	return &TransportWorker{
		transportRepo:   transportRepo,
		notificationSvc: notificationSvc,
		cfg:             cfg,
		cron:            cron.New(),
	}
}

func (w *TransportWorker) Start() error {
	if _, err := w.cron.AddFunc(w.cfg.Overdue.Schedule, func() {
		if err := w.SweepOverdue(time.Now()); err != nil {
			logger.WithError(err).Error("Проверка просроченного транспорта завершилась с ошибкой")
		}
	}); err != nil {
		return err
	}
	w.cron.Start()
	logger.Info("Воркер просрочки транспорта запущен", "schedule", w.cfg.Overdue.Schedule)
	return nil
}

func (w *TransportWorker) Stop() {
	w.cron.Stop()
}

// SweepOverdue обходит активный транспорт и обрабатывает просрочку
// относительно now. Ошибка по одной записи не прерывает обход.
func (w *TransportWorker) SweepOverdue(now time.Time) error {
	return w.transportRepo.StreamActive(func(batch []models.Transport) error {
		for i := range batch {
			t := &batch[i]
			if err := w.processTransport(t, now); err != nil {
				logger.WithError(err).Warn("Транспорт пропущен при проверке просрочки", "transport_id", t.ID)
			}
		}
		return nil
	})
}

func (w *TransportWorker) processTransport(t *models.Transport, now time.Time) error {
	// Режим "постоянно" не просрочивается
	if matching.IsPermanentMode(t.Mode) {
		return nil
	}
	if t.ReadyDateTo == "" {
		return nil
	}

	readyTo, err := matching.ParseFlexibleDate(t.ReadyDateTo)
	if err != nil {
		return err
	}

	days := int(now.Sub(readyTo).Hours() / 24)
	if days < 1 {
		return nil
	}

	switch {
	case days >= 7:
		if _, err := w.notificationSvc.NotifyTransportOverdue(t.OwnerID, t, 7); err != nil {
			return err
		}
		if err := w.transportRepo.SetActive(t.ID, false); err != nil {
			return err
		}
		if _, err := w.notificationSvc.NotifyTransportAutoDisabled(t.OwnerID, t); err != nil {
			return err
		}
		logger.Info("Транспорт снят с публикации по просрочке", "transport_id", t.ID, "days", days)
	case days >= 4:
		if _, err := w.notificationSvc.NotifyTransportOverdue(t.OwnerID, t, 4); err != nil {
			return err
		}
	default:
		if _, err := w.notificationSvc.NotifyTransportOverdue(t.OwnerID, t, 1); err != nil {
			return err
		}
	}
	return nil
}
