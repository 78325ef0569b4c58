// Package redis provides Redis backed implementations of ports.ProjectStore
// and ports.DistributedLocker, for deployments where several instances share
// the same projects.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces project keys.
const DefaultPrefix = "femtree:project:"

// noExpiry is the index score of projects saved without a TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.ProjectStore using Redis. Each project is stored
// as archive bytes under prefix+name; a sorted set indexes the names by
// expiry so List can prune projects whose key has expired.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for projects.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for projects.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying client, so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the document archive to Redis.
func (s *Store) Save(ctx context.Context, name string, doc *document.Document) error {
	data, err := document.EncodeArchive(doc)
	if err != nil {
		return err
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = noExpiry
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: save %s to redis: %w", domain.ErrIO, name, err)
	}
	return nil
}

// Load retrieves the document archive from Redis.
func (s *Store) Load(ctx context.Context, name string) (*document.Document, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, name)
		}
		return nil, fmt.Errorf("%w: load %s from redis: %w", domain.ErrIO, name, err)
	}
	return document.DecodeArchive(data)
}

// Delete removes the project and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: delete %s from redis: %w", domain.ErrIO, name, err)
	}
	return nil
}

// List prunes expired entries from the index and returns the remaining
// project names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("%w: prune expired projects: %w", domain.ErrIO, err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %w", domain.ErrIO, err)
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
