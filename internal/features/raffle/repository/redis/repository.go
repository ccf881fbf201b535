package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/repository"
)

const (
	keyCurrentRound = "raffle:round:current"
	keyLatestWinner = "raffle:winner:latest"
)

type redisRepository struct {
	client *redis.Client
}

// NewRoundRepository returns a RoundRepository backed by Redis. The round is
// stored as a single JSON value, so every write is atomic by construction.
func NewRoundRepository(client *redis.Client) repository.RoundRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) GetCurrent(ctx context.Context) (*models.Round, error) {
	data, err := r.client.Get(ctx, keyCurrentRound).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}

	var round models.Round
	if err := json.Unmarshal(data, &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round: %w", err)
	}
	return &round, nil
}

func (r *redisRepository) SaveCurrent(ctx context.Context, round *models.Round) error {
	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}
	return r.client.Set(ctx, keyCurrentRound, data, 0).Err()
}

func (r *redisRepository) CommitSettlement(ctx context.Context, next *models.Round, winner *models.WinnerRecord) error {
	roundData, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}
	winnerData, err := json.Marshal(winner)
	if err != nil {
		return fmt.Errorf("failed to marshal winner: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyCurrentRound, roundData, 0)
	pipe.Set(ctx, keyLatestWinner, winnerData, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) LatestWinner(ctx context.Context) (*models.WinnerRecord, error) {
	data, err := r.client.Get(ctx, keyLatestWinner).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrWinnerNotFound
	}
	if err != nil {
		return nil, err
	}

	var winner models.WinnerRecord
	if err := json.Unmarshal(data, &winner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winner: %w", err)
	}
	return &winner, nil
}
