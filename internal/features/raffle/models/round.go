package models

import "time"

// RoundStatus represents the status of a raffle round.
type RoundStatus string

const (
	RoundStatusOpen     RoundStatus = "open"     // accepting entries
	RoundStatusSettling RoundStatus = "settling" // awaiting the randomness callback
)

// Round is the unit of raffle play. Exactly one round is current at any time;
// settled rounds leave only a WinnerRecord behind.
type Round struct {
	ID           string             `json:"id"`
	Status       RoundStatus        `json:"status"`
	Participants []string           `json:"participants"` // admission order, duplicates allowed
	Pot          int64              `json:"pot_nanoton"`
	StartedAt    time.Time          `json:"started_at"`
	Request      *RandomnessRequest `json:"request,omitempty"` // non-nil iff Status == settling
}

// RandomnessRequest is the single outstanding ask to the oracle for a round.
type RandomnessRequest struct {
	ID       string    `json:"id"` // opaque handle assigned by the oracle
	RoundID  string    `json:"round_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// WinnerRecord is the most recent settlement result, overwritten each round.
type WinnerRecord struct {
	RoundID   string    `json:"round_id"`
	Address   string    `json:"address"`
	Payout    int64     `json:"payout_nanoton"`
	SettledAt time.Time `json:"settled_at"`
}

// Elapsed returns how long the round clock has been running.
func (r *Round) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.StartedAt)
}

// CanAdmit reports whether the round accepts entries.
func (r *Round) CanAdmit() bool {
	return r.Status == RoundStatusOpen
}

// NeedsUpkeep is the settlement gate: the interval has elapsed, the pot is
// funded, someone has entered, and the round is still open. Pure and
// side-effect free; safe to call arbitrarily often.
func (r *Round) NeedsUpkeep(now time.Time, interval time.Duration) bool {
	return r.Elapsed(now) > interval &&
		r.Pot > 0 &&
		len(r.Participants) > 0 &&
		r.Status == RoundStatusOpen
}
