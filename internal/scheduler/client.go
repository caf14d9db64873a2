// Package scheduler enqueues and processes background tasks via asynq:
// notification delivery and stale listing expiry.
package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"mobiletrade_backend/platform/config"
)

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates an asynq client from the scheduler configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying connection. Safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueListingNotify queues the notification fan-out for a submission.
func (c *Client) EnqueueListingNotify(ctx context.Context, payload ListingNotifyPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewListingNotifyTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

// EnqueueListingStatusNotify queues the seller status-change email.
func (c *Client) EnqueueListingStatusNotify(ctx context.Context, payload ListingStatusNotifyPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewListingStatusNotifyTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

// EnqueueInquiryNotify queues the admin inquiry alert.
func (c *Client) EnqueueInquiryNotify(ctx context.Context, payload InquiryNotifyPayload) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewInquiryNotifyTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
