package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku/internal/entity"
)

const queueSize = 64

var ErrQueueFull = errors.New("publish queue is full")

// Publisher fans session events out on a Redis pub/sub channel.
// Nothing is stored; subscribers that are not connected miss the event.
// Publish only queues the event; Run sends queued events in order.
type Publisher struct {
	client  *redis.Client
	channel string
	queue   chan []byte
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
		queue:   make(chan []byte, queueSize),
	}
}

// Publish queues event without waiting for Redis. It returns ErrQueueFull
// and drops the event when Run has fallen behind.
func (that *Publisher) Publish(_ context.Context, event *entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	select {
	case that.queue <- payload:
		return nil
	default:
		return fmt.Errorf("failed to publish %s event: %w", event.Action, ErrQueueFull)
	}
}

// Run sends queued events to the channel until ctx is done.
func (that *Publisher) Run(ctx context.Context, logger *slog.Logger) {
	log := logger.With("method", "Run", "channel", that.channel)

	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-that.queue:
			if err := that.client.Publish(ctx, that.channel, payload).Err(); err != nil {
				log.Error("failed to publish event", "error", err)
			}
		}
	}
}

// Listen calls handle for every event on the channel until ctx is done.
// ready, when not nil, is closed once the subscription is active.
func (that *Publisher) Listen(ctx context.Context, logger *slog.Logger, ready chan<- struct{}, handle func(event *entity.Event)) error {
	log := logger.With("method", "Listen", "channel", that.channel)

	sub := that.client.Subscribe(ctx, that.channel)
	defer func() {
		if err := sub.Close(); err != nil {
			log.Error("could not close subscription", "error", err)
		}
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	if ready != nil {
		close(ready)
	}

	messages := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var event entity.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error("failed to unmarshal event", "error", err)
				continue
			}

			handle(&event)
		}
	}
}
