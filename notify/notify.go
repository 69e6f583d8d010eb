// Package notify publishes pin actions to other services.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gpiodash/gpiodash/store"
	"github.com/redis/go-redis/v9"
)

// Notifier is told about every pin action carried out through the dashboard.
type Notifier interface {
	Notify(ctx context.Context, e store.Event) error
}

// Redis publishes events as JSON on a Redis pub/sub channel.
type Redis struct {
	client  *redis.Client
	channel string
}

var _ Notifier = &Redis{}

// DialRedis connects to the Redis server at addr and checks it answers.
func DialRedis(ctx context.Context, addr, channel string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis at %s: %w", addr, err)
	}

	return NewRedis(client, channel), nil
}

// NewRedis publishes on channel through an existing client.
func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Notify(ctx context.Context, e store.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("unable to marshal event: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("unable to publish to %s: %w", r.channel, err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
