package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/goschedule/internal/backend/awsclient"
)

const (
	TypeSQLite   = "sqlite"
	TypeRedis    = "redis"
	TypeDynamoDB = "dynamodb"
	TypeBadger   = "badger"
)

// Config selects and parameterizes a metadata store
type Config struct {
	Type             string
	ConnectionString string
	// TableName is only used by DynamoDB
	TableName string
	AWS       awsclient.Credentials
}

func NewDatabase(ctx context.Context, config Config) (database DatabaseService, err error) {
	switch config.Type {
	case TypeSQLite:
		database, err = NewSQLiteDatabase(config.ConnectionString)
	case TypeRedis:
		database, err = NewRedisDatabase(config.ConnectionString)
	case TypeBadger:
		database, err = NewBadgerDatabase(config.ConnectionString)
	case TypeDynamoDB:
		awsConfig, loadErr := awsclient.LoadConfig(ctx, config.AWS)
		if loadErr != nil {
			return nil, loadErr
		}
		database, err = NewDynamoDBDatabase(awsConfig, config.TableName, config.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	// Ensure database schema exists (idempotent), important for in-memory stores
	slog.Info("initializing database schema", "type", config.Type)
	if err = database.CreateDatabase(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return database, nil
}
