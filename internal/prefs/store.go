package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-redis/redis/v8"
)

const themeKey = "prefs:theme"

var ErrNotSet = errors.New("preference not set")

// Store persists the reader-facing preferences next to the posts, in
// whichever KV backend the service runs on.
type Store interface {
	GetTheme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetTheme(ctx context.Context) (string, error) {
	theme, err := s.rdb.Get(ctx, themeKey).Result()
	if err == redis.Nil {
		return "", ErrNotSet
	}
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	return theme, nil
}

func (s *RedisStore) SetTheme(ctx context.Context, theme string) error {
	if err := s.rdb.Set(ctx, themeKey, theme, 0).Err(); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) GetTheme(_ context.Context) (string, error) {
	var theme string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(themeKey))
		if err == badger.ErrKeyNotFound {
			return ErrNotSet
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			theme = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return theme, nil
}

func (s *BadgerStore) SetTheme(_ context.Context, theme string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(themeKey), []byte(theme))
	})
}
