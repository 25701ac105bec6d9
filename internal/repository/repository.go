// Package repository keeps one collection of documents in memory and mirrors
// it to a store.Store after every mutation.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/oficina-erp/oficina/internal/store"
)

// Entity is anything with a stable identity.
type Entity interface {
	DocumentID() string
}

// Codec serializes a whole collection.
type Codec[T any] interface {
	Encode([]T) ([]byte, error)
	Decode([]byte) ([]T, error)
}

// Repository owns the authoritative copy of a collection. Items are returned
// by value; callers replace them through Upsert.
type Repository[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string

	store store.Store
	key   string
	codec Codec[T]
	log   zerolog.Logger
	err   error
}

// New returns an empty repository for key. Call Load to read existing data.
func New[T Entity](st store.Store, key string, codec Codec[T], log zerolog.Logger) *Repository[T] {
	return &Repository[T]{
		items: make(map[string]T),
		store: st,
		key:   key,
		codec: codec,
		log:   log.With().Str("collection", key).Logger(),
	}
}

// Key returns the store key of the collection.
func (r *Repository[T]) Key() string { return r.key }

// Load replaces the in-memory collection with the stored one. A key that was
// never written loads as empty.
func (r *Repository[T]) Load(ctx context.Context) error {
	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", r.key, err)
	}

	var items []T
	if ok && len(data) > 0 {
		items, err = r.codec.Decode(data)
		if err != nil {
			return fmt.Errorf("loading %s: %w", r.key, err)
		}
	}

	byID := make(map[string]T, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		id := it.DocumentID()
		if _, dup := byID[id]; dup {
			return fmt.Errorf("loading %s: duplicate id %q", r.key, id)
		}
		byID[id] = it
		order = append(order, id)
	}

	r.mu.Lock()
	r.items = byID
	r.order = order
	r.mu.Unlock()
	r.log.Debug().Int("count", r.Len()).Msg("collection loaded")
	return nil
}

// Get returns the item with id.
func (r *Repository[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	return it, ok
}

// List returns all items in insertion order.
func (r *Repository[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

// Len returns the number of items.
func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Upsert stores item, replacing any item with the same id, then persists the
// collection. A persistence failure is logged and kept in Err; the in-memory
// change stands.
func (r *Repository[T]) Upsert(ctx context.Context, item T) {
	r.mu.Lock()
	id := item.DocumentID()
	if _, ok := r.items[id]; !ok {
		r.order = append(r.order, id)
	}
	r.items[id] = item
	r.mu.Unlock()

	r.persist(ctx)
}

// Remove deletes the item with id and persists the collection.
// It reports whether an item was removed.
func (r *Repository[T]) Remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.persist(ctx)
	return true
}

// Flush writes the collection and returns any error.
func (r *Repository[T]) Flush(ctx context.Context) error {
	data, err := r.codec.Encode(r.List())
	if err != nil {
		return fmt.Errorf("saving %s: %w", r.key, err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving %s: %w", r.key, err)
	}
	return nil
}

// Err returns the last persistence failure, or nil once a later write succeeds.
func (r *Repository[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

func (r *Repository[T]) persist(ctx context.Context) {
	err := r.Flush(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("persisting collection failed")
	}
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}
