// Package memory provides an in-memory RoundRepository for tests and local
// development. State does not survive a restart.
package memory

import (
	"context"
	"sync"

	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/repository"
)

type memoryRepository struct {
	mu     sync.RWMutex
	round  *models.Round
	winner *models.WinnerRecord
}

func NewRoundRepository() repository.RoundRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) GetCurrent(ctx context.Context) (*models.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.round == nil {
		return nil, repository.ErrRoundNotFound
	}
	return cloneRound(r.round), nil
}

func (r *memoryRepository) SaveCurrent(ctx context.Context, round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.round = cloneRound(round)
	return nil
}

func (r *memoryRepository) CommitSettlement(ctx context.Context, next *models.Round, winner *models.WinnerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.round = cloneRound(next)
	w := *winner
	r.winner = &w
	return nil
}

func (r *memoryRepository) LatestWinner(ctx context.Context) (*models.WinnerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.winner == nil {
		return nil, repository.ErrWinnerNotFound
	}
	w := *r.winner
	return &w, nil
}

func cloneRound(round *models.Round) *models.Round {
	c := *round
	c.Participants = append([]string(nil), round.Participants...)
	if round.Request != nil {
		req := *round.Request
		c.Request = &req
	}
	return &c
}
