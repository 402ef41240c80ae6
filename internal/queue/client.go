// Package queue wraps the Redis-backed job queue used to push slow work
// like email delivery out of the request path
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Client struct {
	c *asynq.Client
}

func NewClient() *Client {
	return &Client{
		c: asynq.NewClient(asynq.RedisClientOpt{
			Addr: viper.GetString("redis.addr"),
		}),
	}
}

// Add enqueues a named job carrying a JSON payload. Delivery is
// at-least-once, retries are owned by the worker side
func (c *Client) Add(jobKey string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload, %w", err)
	}

	info, err := c.c.Enqueue(asynq.NewTask(jobKey, b))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s job, %w", jobKey, err)
	}

	zap.L().Debug("Enqueued job",
		zap.String("job", jobKey),
		zap.String("id", info.ID),
		zap.String("queue", info.Queue),
	)
	return nil
}

func (c *Client) Close() error {
	return c.c.Close()
}
