// Package persist mirrors the todo list into a single durable key-value slot.
//
// Every save rewrites the whole snapshot under one fixed key. Read and write
// failures, including a corrupt snapshot, are logged here and never surface
// to the list's callers as failures: a failed read reads as "no data" and a
// failed write only costs durability until the next successful one.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/todolist/internal/kv"
	"github.com/idilsaglam/todolist/internal/model"
)

// DefaultKey is the slot the snapshot is stored under.
const DefaultKey = "todos"

// ErrCorrupt wraps a snapshot that could not be decoded.
var ErrCorrupt = errors.New("corrupt snapshot")

// Encode serializes a list as a JSON array in list order.
func Encode(list model.List) ([]byte, error) {
	b, err := json.Marshal(list.Clone())
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a snapshot. A JSON null decodes to an empty list.
func Decode(b []byte) (model.List, error) {
	var list model.List
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrCorrupt, err)
	}
	if list == nil {
		list = model.List{}
	}
	return list, nil
}

// Adapter translates the list to and from the blob at a fixed key.
type Adapter struct {
	store  kv.Store
	key    string
	logger zerolog.Logger
}

// NewAdapter returns an adapter over store. An empty key selects DefaultKey.
func NewAdapter(store kv.Store, key string, logger zerolog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{
		store:  store,
		key:    key,
		logger: logger.With().Str("component", "persist").Str("key", key).Logger(),
	}
}

// Key returns the fixed key.
func (a *Adapter) Key() string { return a.key }

// Save overwrites the snapshot with list. The error is logged and returned
// for notification; callers that only care about memory state ignore it.
func (a *Adapter) Save(ctx context.Context, list model.List) error {
	b, err := Encode(list)
	if err == nil {
		err = a.store.Set(ctx, a.key, b)
	}
	if err != nil {
		a.logger.Error().Err(err).Int("items", len(list)).Msg("error saving todos")
		return err
	}
	a.logger.Debug().Int("items", len(list)).Int("bytes", len(b)).Msg("saved todos")
	return nil
}

// Read returns the stored list and true, or false when nothing usable is
// stored. Absent, unreadable and corrupt snapshots all read as false.
func (a *Adapter) Read(ctx context.Context) (model.List, bool) {
	b, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("error loading todos")
		return nil, false
	}
	list, err := Decode(b)
	if err != nil {
		a.logger.Error().Err(err).Int("bytes", len(b)).Msg("error loading todos")
		return nil, false
	}
	return list, true
}

// Purge deletes the snapshot so the next Read reports no data.
func (a *Adapter) Purge(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		a.logger.Error().Err(err).Msg("error clearing todos")
		return err
	}
	return nil
}
