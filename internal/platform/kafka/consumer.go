package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"uniagendas/internal/platform/config"
)

// Received is a consumed record.
type Received struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one record. Returning an error leaves the offset
// uncommitted so the record is redelivered.
type Handler interface {
	Handle(ctx context.Context, msg *Received) error
}

type HandlerFunc func(ctx context.Context, msg *Received) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Received) error { return f(ctx, msg) }

// Consumer reads a topic as a member of a consumer group and commits
// offsets only after the handler succeeds.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// NewConsumer joins group on the configured topic. fromStart makes a new
// group begin at the earliest offset instead of the latest.
func NewConsumer(cfg config.KafkaConfig, group string, fromStart bool, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if group == "" {
		return nil, fmt.Errorf("kafka consumer group not configured")
	}

	reset := kgo.NewOffset().AtEnd()
	if fromStart {
		reset = kgo.NewOffset().AtStart()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(reset),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until ctx is cancelled, then leaves the group.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.log(ctx, "kafka fetch failed", "topic", topic, "partition", partition, "error", err)
		})

		var done []*kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			if err := c.handler.Handle(ctx, fromRecord(r)); err != nil {
				c.log(ctx, "kafka handler failed",
					"topic", r.Topic,
					"partition", r.Partition,
					"offset", r.Offset,
					"error", err,
				)
				return
			}
			done = append(done, r)
		})

		if len(done) == 0 {
			continue
		}
		if err := c.client.CommitRecords(ctx, done...); err != nil && ctx.Err() == nil {
			c.log(ctx, "kafka commit failed", "records", len(done), "error", err)
		}
	}
}

func (c *Consumer) log(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.ErrorContext(ctx, msg, args...)
	}
}

func fromRecord(r *kgo.Record) *Received {
	headers := make(map[string]string, len(r.Headers))
	for _, h := range r.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Received{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   headers,
		Timestamp: r.Timestamp,
	}
}
