package rediskv

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not-a-url://", "todo")
	assert.Error(t, err)
}

func TestKeyPrefix(t *testing.T) {
	s, err := New("redis://localhost:6379/0", "todo")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "todo:todos", s.Key("todos"))
	assert.Equal(t, "todos", NewWithClient(redis.NewClient(&redis.Options{}), "").Key("todos"))
}

func TestUnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewWithClient(client, "todo")
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := s.Get(ctx, "todos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get")
	assert.Error(t, s.Set(ctx, "todos", []byte(`[]`)))
}
