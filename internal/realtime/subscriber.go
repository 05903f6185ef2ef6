// Package realtime consumes official price change events published by an external collaborator.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
	"station-dashboard/internal/models"
)

// PriceChange is one change-feed event for the official_prices table.
type PriceChange struct {
	Type   string               `json:"type"`
	Record models.OfficialPrice `json:"record"`
}

// Consumer handles one event. A returned error is logged; the subscription keeps running.
type Consumer func(ctx context.Context, change PriceChange) error

// Subscriber delivers events to consume until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, consume Consumer) error
}

type RedisSubscriber struct {
	client  *redis.Client
	channel string
	logger  logger.Logger
}

func NewRedisSubscriber(client *redis.Client, channel string, log logger.Logger) *RedisSubscriber {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RedisSubscriber{
		client:  client,
		channel: channel,
		logger:  log.WithFields(map[string]interface{}{"component": "realtime", "channel": channel}),
	}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, consume Consumer) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.logger.Info("Subscribed to price changes", nil)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handle(ctx, msg.Payload, consume)
		}
	}
}

func (s *RedisSubscriber) handle(ctx context.Context, payload string, consume Consumer) {
	change, err := Decode([]byte(payload))
	if err != nil {
		metrics.PriceEvents.WithLabelValues("malformed").Inc()
		s.logger.Warn("Skipping malformed price event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := consume(ctx, change); err != nil {
		metrics.PriceEvents.WithLabelValues("consumer_error").Inc()
		s.logger.Error("Price event consumer failed", map[string]interface{}{
			"state": change.Record.State,
			"brand": change.Record.Brand,
			"error": err.Error(),
		})
		return
	}
	metrics.PriceEvents.WithLabelValues("delivered").Inc()
}

// Decode parses an event and requires the (state, brand) key.
func Decode(data []byte) (PriceChange, error) {
	var change PriceChange
	if err := json.Unmarshal(data, &change); err != nil {
		return PriceChange{}, err
	}
	if change.Record.State == "" || change.Record.Brand == "" {
		return PriceChange{}, fmt.Errorf("price event missing state or brand")
	}
	if change.Type == "" {
		change.Type = "UPDATE"
	}
	return change, nil
}
