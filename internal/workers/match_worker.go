package workers

import (
	"context"
	"sync"

	"cargolink_backend/internal/config"
	"cargolink_backend/internal/logger"
	"cargolink_backend/internal/services"
)

// matchTask — одна задача авто-подбора: сущность-триггер и её id.
type matchTask struct {
	Kind string
	ID   string
}

// MatchWorker выполняет прогоны авто-подбора из ограниченной очереди.
// Создание/обновление заказа или транспорта ставит задачу через
// Enqueue; запрос пользователя никогда не ждёт результата.
type MatchWorker struct {
	matchingSvc services.MatchingService
	cfg         *config.Config

	queue chan matchTask
	wg    sync.WaitGroup
}

func NewMatchWorker(matchingSvc services.MatchingService, cfg *config.Config) *MatchWorker {
	return &MatchWorker{
		matchingSvc: matchingSvc,
		cfg:         cfg,
		queue:       make(chan matchTask, cfg.Worker.QueueSize),
	}
}

// Start поднимает пул воркеров. Останавливается отменой ctx,
// Wait дожидается завершения запущенных прогонов.
func (w *MatchWorker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.Worker.Concurrency; i++ {
		w.wg.Add(1)
		go w.loop(ctx)
	}
	logger.Info("Воркер авто-подбора запущен",
		"concurrency", w.cfg.Worker.Concurrency,
		"queue_size", w.cfg.Worker.QueueSize,
	)
}

func (w *MatchWorker) Wait() {
	w.wg.Wait()
}

// Enqueue ставит задачу без блокировки: при переполненной очереди
// задача отбрасывается с предупреждением. Потерянный прогон не
// критичен — следующее обновление сущности поставит задачу снова.
func (w *MatchWorker) Enqueue(kind, id string) {
	select {
	case w.queue <- matchTask{Kind: kind, ID: id}:
	default:
		logger.Warn("Очередь авто-подбора переполнена, задача отброшена", "kind", kind, "id", id)
	}
}

func (w *MatchWorker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.runTask(ctx, task)
		}
	}
}

func (w *MatchWorker) runTask(ctx context.Context, task matchTask) {
	runCtx, cancel := context.WithTimeout(ctx, w.cfg.RunTimeout())
	defer cancel()

	err := w.RunMatch(runCtx, task.Kind, task.ID)
	logger.WorkerLog("match", "run_match:"+task.Kind+":"+task.ID, err)
}

// RunMatch выполняет один прогон подбора для сущности-триггера.
func (w *MatchWorker) RunMatch(ctx context.Context, kind, id string) error {
	switch kind {
	case services.MatchKindOrder:
		return w.matchingSvc.NotifyMatchesForOrder(ctx, id)
	case services.MatchKindTransport:
		return w.matchingSvc.NotifyMatchesForTransport(ctx, id)
	default:
		logger.Warn("Неизвестный тип задачи подбора", "kind", kind, "id", id)
		return nil
	}
}
