package workers

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/service"
)

type scriptedService struct {
	mu       sync.Mutex
	needed   bool
	performs int
	err      error
}

func (s *scriptedService) Admit(ctx context.Context, address string, paid int64) (*models.Round, error) {
	return nil, nil
}

func (s *scriptedService) CurrentRound(ctx context.Context) (*models.Round, error) {
	return nil, nil
}

func (s *scriptedService) CheckUpkeep(ctx context.Context) (*service.UpkeepStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &service.UpkeepStatus{Needed: s.needed}, nil
}

func (s *scriptedService) PerformUpkeep(ctx context.Context) (*models.RandomnessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performs++
	if s.err != nil {
		return nil, s.err
	}
	// After triggering once the round is settling; stop reporting needed.
	s.needed = false
	return &models.RandomnessRequest{ID: "req-1", RoundID: "round-1"}, nil
}

func (s *scriptedService) SettleRound(ctx context.Context, requestID string, randomWord *big.Int) (*models.WinnerRecord, error) {
	return nil, nil
}

func (s *scriptedService) LatestWinner(ctx context.Context) (*models.WinnerRecord, error) {
	return nil, nil
}

func (s *scriptedService) performCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.performs
}

func TestUpkeepWorkerTriggersWhenNeeded(t *testing.T) {
	svc := &scriptedService{needed: true}
	w := NewUpkeepWorker(svc, 10*time.Millisecond)

	w.Start()
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	assert.Equal(t, 1, svc.performCount())
}

func TestUpkeepWorkerIdlesWhenNotNeeded(t *testing.T) {
	svc := &scriptedService{needed: false}
	w := NewUpkeepWorker(svc, 10*time.Millisecond)

	w.Start()
	time.Sleep(60 * time.Millisecond)
	w.Stop()

	assert.Zero(t, svc.performCount())
}

// Losing the trigger race to an external caller is not an error.
func TestUpkeepWorkerToleratesLostRace(t *testing.T) {
	svc := &scriptedService{
		needed: true,
		err:    &models.UpkeepNotNeededError{Status: models.RoundStatusSettling},
	}
	w := NewUpkeepWorker(svc, 10*time.Millisecond)

	w.Start()
	time.Sleep(60 * time.Millisecond)
	w.Stop()

	assert.GreaterOrEqual(t, svc.performCount(), 1)
}
