// Package memkv is an in-process slot store backed by go-cache. Nothing
// survives a restart; it exists for tests and throwaway sessions.
package memkv

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/idilsaglam/todolist/internal/kv"
)

type Store struct {
	cache *cache.Cache
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, kv.ErrNotFound
	}
	b := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := make([]byte, len(value))
	copy(b, value)
	s.cache.Set(key, b, cache.NoExpiration)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}
