package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	redisRecordPrefix = "schedule:"
	redisIndexKey     = "schedule:ids"
)

// RedisDatabase keeps each record in a hash and the insertion order in a list
type RedisDatabase struct {
	client *redis.Client
}

// NewRedisDatabase accepts either a redis:// URL or a plain host:port address
func NewRedisDatabase(connectionString string) (DatabaseService, error) {
	var options *redis.Options
	if strings.Contains(connectionString, "://") {
		parsed, err := redis.ParseURL(connectionString)
		if err != nil {
			return nil, fmt.Errorf("invalid redis connection string: %w", err)
		}
		options = parsed
	} else {
		options = &redis.Options{Addr: connectionString}
	}

	return &RedisDatabase{client: redis.NewClient(options)}, nil
}

func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (r *RedisDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) CreateRecord(ctx context.Context, record *Record) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisRecordPrefix+record.ID, recordToHash(record))
		pipe.RPush(ctx, redisIndexKey, record.ID)
		return nil
	})
	return err
}

func (r *RedisDatabase) GetRecordByID(ctx context.Context, id string) (*Record, error) {
	values, err := r.client.HGetAll(ctx, redisRecordPrefix+id).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return recordFromHash(values), nil
}

func (r *RedisDatabase) GetAllRecords(ctx context.Context) ([]*Record, error) {
	ids, err := r.client.LRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, redisRecordPrefix+id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(ids))
	for _, cmd := range cmds {
		values := cmd.Val()
		if len(values) == 0 {
			continue
		}
		records = append(records, recordFromHash(values))
	}
	return records, nil
}

func recordToHash(record *Record) map[string]any {
	return map[string]any{
		"id":             record.ID,
		"image_url":      record.ImageURL,
		"object_key":     record.ObjectKey,
		"scheduled_time": record.ScheduledTime,
	}
}

func recordFromHash(values map[string]string) *Record {
	return &Record{
		ID:            values["id"],
		ImageURL:      values["image_url"],
		ObjectKey:     values["object_key"],
		ScheduledTime: values["scheduled_time"],
	}
}
