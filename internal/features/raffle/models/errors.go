package models

import (
	"errors"
	"fmt"
)

var (
	ErrRoundNotOpen        = errors.New("round is not open for entries")
	ErrInsufficientPayment = errors.New("payment below entry fee")
	ErrUnknownRequest      = errors.New("unknown or already consumed randomness request")
	ErrTransferFailed      = errors.New("winner disbursement failed")
)

// UpkeepNotNeededError is returned when settlement is triggered while the
// upkeep condition does not hold. It carries the state the caller needs to
// decide when to retry.
type UpkeepNotNeededError struct {
	Pot          int64
	Participants int
	Status       RoundStatus
}

func (e *UpkeepNotNeededError) Error() string {
	return fmt.Sprintf("upkeep not needed (pot=%d participants=%d status=%s)",
		e.Pot, e.Participants, e.Status)
}
