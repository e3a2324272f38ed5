/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"context"

	"github.com/suparena/tablestore/query"
	"github.com/suparena/tablestore/storagemodels"
)

// Table is a typed handle on one table of one store. Every method returns
// the classified query.Operation of the underlying call.
type Table[T any] struct {
	svc   *query.TableService
	store string
	name  string
}

// NewTable creates a Table for entities of type T.
func NewTable[T any](svc *query.TableService, store, name string) *Table[T] {
	return &Table[T]{svc: svc, store: store, name: name}
}

// Store returns the logical store name.
func (t *Table[T]) Store() string { return t.store }

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Get retrieves a single entity.
func (t *Table[T]) Get(ctx context.Context, partitionKey, rowKey string) query.Operation {
	return query.GetEntity[T](ctx, t.svc, t.store, t.name, partitionKey, rowKey)
}

// List retrieves every entity matching filter.
func (t *Table[T]) List(ctx context.Context, filter storagemodels.Filter) query.Operation {
	return query.GetEntityList[T](ctx, t.svc, t.store, t.name, filter)
}

// Upsert stores entity, replacing any entity with the same keys.
func (t *Table[T]) Upsert(ctx context.Context, entity T) query.Operation {
	return query.UpsertEntity(ctx, t.svc, t.store, t.name, entity)
}

// Delete removes an entity.
func (t *Table[T]) Delete(ctx context.Context, partitionKey, rowKey string) query.Operation {
	return query.DeleteEntity(ctx, t.svc, t.store, t.name, partitionKey, rowKey)
}
