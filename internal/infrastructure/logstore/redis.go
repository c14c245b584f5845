package logstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitos/marketpulse/internal/domain"
)

const fieldName = "value"

// RedisLogStore implements domain.LogStore on top of Redis Streams:
// Produce is XADD, Subscribe/Poll is XREADGROUP against a consumer group
// created on first subscribe. This gives the durable log transport
// at-least-once delivery without pretending to be the real exchange's
// wire protocol, which is out of scope.
type RedisLogStore struct {
	client *redis.Client
}

// NewRedisLogStore dials host:port and verifies connectivity with a short
// ping before returning.
func NewRedisLogStore(host, port, password string) (*RedisLogStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLogStore{client: client}, nil
}

func (r *RedisLogStore) Produce(ctx context.Context, topic, key string, value []byte) error {
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			fieldName: value,
		},
	}).Err()
}

func (r *RedisLogStore) Subscribe(ctx context.Context, topic, group string) (domain.Consumer, error) {
	err := r.client.XGroupCreateMkStream(ctx, topic, group, "0").Err()
	if err != nil && !isBusyGroupErr(err) {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &redisConsumer{
		client:     r.client,
		topic:      topic,
		group:      group,
		consumerID: fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
	}, nil
}

func (r *RedisLogStore) Close() error {
	return r.client.Close()
}

func isBusyGroupErr(err error) bool {
	return err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists"
}

// redisConsumer implements domain.Consumer via XREADGROUP with a short
// blocking timeout. Poll returns (nil, nil) on an empty read, matching
// the contract: an empty poll is not an error.
type redisConsumer struct {
	client     *redis.Client
	topic      string
	group      string
	consumerID string
}

const pollTimeout = 2 * time.Second

func (c *redisConsumer) Poll(ctx context.Context) (*domain.LogMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumerID,
		Streams:  []string{c.topic, ">"},
		Count:    1,
		Block:    pollTimeout,
	}).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	msg := streams[0].Messages[0]
	key, _ := msg.Values["key"].(string)
	value, _ := msg.Values[fieldName].(string)

	c.client.XAck(ctx, c.topic, c.group, msg.ID)

	return &domain.LogMessage{Key: key, Value: []byte(value)}, nil
}

func (c *redisConsumer) Close() error {
	return nil
}
