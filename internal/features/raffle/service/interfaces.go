package service

import (
	"context"
	"math/big"
	"time"

	"raffle-backend/internal/features/raffle/models"
)

// RaffleService is the public surface of the raffle core.
type RaffleService interface {
	// Admit adds a participant to the current round after fee validation.
	Admit(ctx context.Context, address string, paid int64) (*models.Round, error)

	// CurrentRound returns a snapshot of the current round.
	CurrentRound(ctx context.Context) (*models.Round, error)

	// CheckUpkeep reports whether settlement may begin, with diagnostics.
	// Read-only; callable by anyone, any time.
	CheckUpkeep(ctx context.Context) (*UpkeepStatus, error)

	// PerformUpkeep begins settlement: re-validates the upkeep condition,
	// issues exactly one randomness request and moves the round to settling.
	PerformUpkeep(ctx context.Context) (*models.RandomnessRequest, error)

	// SettleRound consumes the randomness callback for the outstanding
	// request: selects the winner, disburses the pot and resets the round.
	SettleRound(ctx context.Context, requestID string, randomWord *big.Int) (*models.WinnerRecord, error)

	// LatestWinner returns the most recent winner record.
	LatestWinner(ctx context.Context) (*models.WinnerRecord, error)
}

// RequestIssuer is the gateway surface the engine uses to ask the oracle for
// randomness. Issuing must not mutate round state.
type RequestIssuer interface {
	IssueRequest(ctx context.Context, roundID string) (models.RandomnessRequest, error)
}

// PayoutClient disburses the pot to the winner. ref is an idempotency key.
type PayoutClient interface {
	Transfer(ctx context.Context, toAddress string, amount int64, ref string) error
}

// UpkeepStatus is the checkUpkeep verdict plus the state a scheduler needs
// to decide when to retry.
type UpkeepStatus struct {
	Needed       bool
	Pot          int64
	Participants int
	Status       models.RoundStatus
	Elapsed      time.Duration
}
