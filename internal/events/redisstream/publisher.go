package redisstream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"raffle-backend/internal/events"
)

const streamKey = "raffle:events"

// Publisher appends raffle notifications to a single Redis stream with the
// event type as a field, so consumers can fan out with one consumer group.
type Publisher struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"type":    eventType,
			"payload": string(b),
		},
	}).Err()
}

func (p *Publisher) PublishParticipantAdmitted(ctx context.Context, e events.ParticipantAdmitted) error {
	e.TsUnixMilli = time.Now().UnixMilli()
	return p.publish(ctx, events.TopicParticipantAdmitted, e)
}

func (p *Publisher) PublishSettlementStarted(ctx context.Context, e events.SettlementStarted) error {
	e.TsUnixMilli = time.Now().UnixMilli()
	return p.publish(ctx, events.TopicSettlementStarted, e)
}

func (p *Publisher) PublishWinnerSelected(ctx context.Context, e events.WinnerSelected) error {
	e.TsUnixMilli = time.Now().UnixMilli()
	return p.publish(ctx, events.TopicWinnerSelected, e)
}
