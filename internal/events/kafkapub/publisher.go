package kafkapub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"raffle-backend/internal/events"
)

// Publisher writes raffle notifications to Kafka, one topic per event type.
type Publisher struct {
	writer *kafka.Writer
}

func New(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) publish(ctx context.Context, topic, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: b,
	})
}

func (p *Publisher) PublishParticipantAdmitted(ctx context.Context, e events.ParticipantAdmitted) error {
	e.TsUnixMilli = time.Now().UnixMilli()
	return p.publish(ctx, events.TopicParticipantAdmitted, e.RoundID, e)
}

func (p *Publisher) PublishSettlementStarted(ctx context.Context, e events.SettlementStarted) error {
	e.TsUnixMilli = time.Now().UnixMilli()
	return p.publish(ctx, events.TopicSettlementStarted, e.RoundID, e)
}

func (p *Publisher) PublishWinnerSelected(ctx context.Context, e events.WinnerSelected) error {
	e.TsUnixMilli = time.Now().UnixMilli()
	return p.publish(ctx, events.TopicWinnerSelected, e.RoundID, e)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
