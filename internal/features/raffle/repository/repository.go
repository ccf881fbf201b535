package repository

import (
	"context"
	"errors"

	"raffle-backend/internal/features/raffle/models"
)

var (
	ErrRoundNotFound  = errors.New("no current round")
	ErrWinnerNotFound = errors.New("no winner recorded yet")
)

// RoundRepository persists the current round and the most recent winner.
// SaveCurrent and CommitSettlement must each apply atomically: a reader never
// observes a partially written round.
type RoundRepository interface {
	// GetCurrent returns the current round, or ErrRoundNotFound before the
	// first round is created.
	GetCurrent(ctx context.Context) (*models.Round, error)

	// SaveCurrent overwrites the current round.
	SaveCurrent(ctx context.Context, round *models.Round) error

	// CommitSettlement atomically replaces the current round with its reset
	// successor and records the winner.
	CommitSettlement(ctx context.Context, next *models.Round, winner *models.WinnerRecord) error

	// LatestWinner returns the most recent winner record, or
	// ErrWinnerNotFound if no round has settled yet.
	LatestWinner(ctx context.Context) (*models.WinnerRecord, error)
}
