package dto

import (
	"time"

	"raffle-backend/internal/features/raffle/models"
)

// RoundResponse is the public snapshot of the current round.
type RoundResponse struct {
	ID           string             `json:"id"`
	Status       models.RoundStatus `json:"status"`
	Participants int                `json:"participants"`
	Pot          int64              `json:"pot_nanoton"`
	StartedAt    time.Time          `json:"started_at"`
	RequestID    string             `json:"request_id,omitempty"`
}

// UpkeepResponse mirrors checkUpkeep: the verdict plus the diagnostics an
// external scheduler needs.
type UpkeepResponse struct {
	UpkeepNeeded bool               `json:"upkeep_needed"`
	Pot          int64              `json:"pot_nanoton"`
	Participants int                `json:"participants"`
	Status       models.RoundStatus `json:"status"`
	ElapsedSec   int64              `json:"elapsed_sec"`
}

// WinnerResponse is the most recent settlement result.
type WinnerResponse struct {
	RoundID   string    `json:"round_id"`
	Address   string    `json:"address"`
	Payout    int64     `json:"payout_nanoton"`
	SettledAt time.Time `json:"settled_at"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewRoundResponse(r *models.Round) RoundResponse {
	resp := RoundResponse{
		ID:           r.ID,
		Status:       r.Status,
		Participants: len(r.Participants),
		Pot:          r.Pot,
		StartedAt:    r.StartedAt,
	}
	if r.Request != nil {
		resp.RequestID = r.Request.ID
	}
	return resp
}

func NewWinnerResponse(w *models.WinnerRecord) WinnerResponse {
	return WinnerResponse{
		RoundID:   w.RoundID,
		Address:   w.Address,
		Payout:    w.Payout,
		SettledAt: w.SettledAt,
	}
}
