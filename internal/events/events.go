// Package events defines the notification payloads emitted by the raffle
// core for external observers. The core never consumes its own events.
package events

import "context"

type ParticipantAdmitted struct {
	RoundID     string `json:"round_id"`
	Address     string `json:"address"`
	PaidNano    int64  `json:"paid_nanoton"`
	PotNano     int64  `json:"pot_nanoton"`
	EntryIndex  int    `json:"entry_index"`
	TsUnixMilli int64  `json:"ts_unix_ms"`
}

type SettlementStarted struct {
	RoundID      string `json:"round_id"`
	RequestID    string `json:"request_id"`
	PotNano      int64  `json:"pot_nanoton"`
	Participants int    `json:"participants"`
	TsUnixMilli  int64  `json:"ts_unix_ms"`
}

type WinnerSelected struct {
	RoundID     string `json:"round_id"`
	RequestID   string `json:"request_id"`
	Address     string `json:"address"`
	PayoutNano  int64  `json:"payout_nanoton"`
	TsUnixMilli int64  `json:"ts_unix_ms"`
}

// Publisher delivers raffle notifications. Implementations are best-effort:
// the caller logs failures and never fails the triggering operation.
type Publisher interface {
	PublishParticipantAdmitted(ctx context.Context, e ParticipantAdmitted) error
	PublishSettlementStarted(ctx context.Context, e SettlementStarted) error
	PublishWinnerSelected(ctx context.Context, e WinnerSelected) error
}

// Noop discards all events.
type Noop struct{}

func (Noop) PublishParticipantAdmitted(ctx context.Context, e ParticipantAdmitted) error { return nil }
func (Noop) PublishSettlementStarted(ctx context.Context, e SettlementStarted) error     { return nil }
func (Noop) PublishWinnerSelected(ctx context.Context, e WinnerSelected) error           { return nil }
