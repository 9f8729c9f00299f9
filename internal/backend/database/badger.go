package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerRecordPrefix = "schedule/"

// BadgerDatabase stores records as JSON values in an embedded key-value store.
// An empty connection string or ":memory:" keeps everything in memory.
type BadgerDatabase struct {
	db *badger.DB
}

func NewBadgerDatabase(connectionString string) (DatabaseService, error) {
	opts := badger.DefaultOptions(connectionString)
	if connectionString == "" || connectionString == ":memory:" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &BadgerDatabase{db: db}, nil
}

// CreateDatabase is a no-op, badger has no schema
func (b *BadgerDatabase) CreateDatabase(ctx context.Context) error {
	return nil
}

func (b *BadgerDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return b.db != nil && !b.db.IsClosed()
}

func (b *BadgerDatabase) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *BadgerDatabase) CreateRecord(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerRecordPrefix+record.ID), data)
	})
}

func (b *BadgerDatabase) GetRecordByID(ctx context.Context, id string) (*Record, error) {
	var record *Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerRecordPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record = &Record{}
			return json.Unmarshal(val, record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (b *BadgerDatabase) GetAllRecords(ctx context.Context) ([]*Record, error) {
	var records []*Record
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := []byte(badgerRecordPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("failed to decode record %s: %w", it.Item().Key(), err)
			}
			records = append(records, &record)
		}
		return nil
	})
	return records, err
}
