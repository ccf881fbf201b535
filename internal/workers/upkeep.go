package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"raffle-backend/internal/common/logger"
	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/service"
)

// UpkeepWorker is the in-process scheduler: it polls checkUpkeep and triggers
// settlement when the condition holds. It acts through the same public
// operations as any external caller, and the engine re-validates the
// condition itself, so a racing external trigger is harmless.
type UpkeepWorker struct {
	service  service.RaffleService
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewUpkeepWorker(svc service.RaffleService, interval time.Duration) *UpkeepWorker {
	return &UpkeepWorker{service: svc, interval: interval}
}

func (w *UpkeepWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		logger.Info().Dur("interval", w.interval).Msg("Upkeep worker started")
		for {
			select {
			case <-ticker.C:
				w.tick(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *UpkeepWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	logger.Info().Msg("Upkeep worker stopped")
}

func (w *UpkeepWorker) tick(ctx context.Context) {
	status, err := w.service.CheckUpkeep(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Upkeep check failed")
		return
	}
	if !status.Needed {
		return
	}

	req, err := w.service.PerformUpkeep(ctx)
	if err != nil {
		// Lost the race to another trigger; nothing to do.
		var upkeepErr *models.UpkeepNotNeededError
		if errors.As(err, &upkeepErr) {
			return
		}
		logger.Error().Err(err).Msg("Upkeep trigger failed")
		return
	}
	logger.Info().
		Str("round_id", req.RoundID).
		Str("request_id", req.ID).
		Msg("Upkeep triggered settlement")
}
