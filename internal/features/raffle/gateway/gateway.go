// Package gateway is the boundary to the external randomness oracle. It
// issues requests on behalf of the settlement engine and is the single entry
// point for fulfillment callbacks. The gateway owns no round state: request
// bookkeeping lives with the round, and the engine decides whether a callback
// matches the live request.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"raffle-backend/internal/features/raffle/models"
)

// ErrBadRandomWords marks a callback whose payload shape is unusable before
// any request matching happens.
var ErrBadRandomWords = errors.New("fulfillment carries no usable random words")

// RandomnessSource is the outbound oracle surface (the HTTP client).
type RandomnessSource interface {
	RequestRandomness(ctx context.Context, roundID string) (string, error)
}

// FulfillmentSink consumes a validated random word for a request.
type FulfillmentSink interface {
	SettleRound(ctx context.Context, requestID string, randomWord *big.Int) (*models.WinnerRecord, error)
}

type Gateway struct {
	source RandomnessSource
	sink   FulfillmentSink
	now    func() time.Time
}

func New(source RandomnessSource) *Gateway {
	return &Gateway{source: source, now: time.Now}
}

// AttachSink wires the settlement engine after construction; the engine and
// gateway reference each other, so one side binds late.
func (g *Gateway) AttachSink(sink FulfillmentSink) {
	g.sink = sink
}

// IssueRequest asks the oracle for randomness for the given round and
// returns the resulting request handle. Round state is untouched; recording
// the handle is the caller's job.
func (g *Gateway) IssueRequest(ctx context.Context, roundID string) (models.RandomnessRequest, error) {
	id, err := g.source.RequestRandomness(ctx, roundID)
	if err != nil {
		return models.RandomnessRequest{}, fmt.Errorf("issue randomness request: %w", err)
	}
	return models.RandomnessRequest{
		ID:       id,
		RoundID:  roundID,
		IssuedAt: g.now(),
	}, nil
}

// Fulfill handles the oracle's callback. Words beyond the first are ignored.
// Shape errors are reported as such; whether the request is live is decided
// against round state, independent of the caller-origin check done at the
// transport layer.
func (g *Gateway) Fulfill(ctx context.Context, requestID string, randomWords []string) (*models.WinnerRecord, error) {
	if requestID == "" {
		return nil, models.ErrUnknownRequest
	}
	if len(randomWords) == 0 {
		return nil, ErrBadRandomWords
	}
	word, ok := new(big.Int).SetString(randomWords[0], 10)
	if !ok || word.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadRandomWords, randomWords[0])
	}
	return g.sink.SettleRound(ctx, requestID, word)
}
