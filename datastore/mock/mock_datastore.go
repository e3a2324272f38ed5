/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides in-memory implementations of the datastore interfaces for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// Default key attribute names used by the mock tables.
const (
	PartitionKeyAttribute = "PartitionKey"
	RowKeyAttribute       = "RowKey"
)

// Factory resolves mock services by logical store name.
type Factory map[string]*Service

// CreateClient returns the service registered under name.
func (f Factory) CreateClient(name string) (datastore.ServiceClient, error) {
	svc, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStore, name)
	}
	return svc, nil
}

// Service is an in-memory store account holding any number of tables.
type Service struct {
	mu     sync.Mutex
	tables map[string]*Table
}

// NewService creates an empty mock Service
func NewService() *Service {
	return &Service{tables: make(map[string]*Table)}
}

// TableClient returns the named table, creating it on first use.
func (s *Service) TableClient(tableName string) datastore.TableClient {
	return s.Table(tableName)
}

// Table returns the concrete mock table so tests can seed data and inject faults.
func (s *Service) Table(tableName string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[tableName]
	if !ok {
		t = NewTable(tableName)
		s.tables[tableName] = t
	}
	return t
}

// Table is a mock datastore.TableClient. Items are kept in insertion order,
// which is the order queries return them in.
type Table struct {
	mu       sync.RWMutex
	name     string
	items    []storagemodels.Item
	index    map[string]int
	pageSize int

	getFunc   func(ctx context.Context, partitionKey, rowKey string) (storagemodels.Item, error)
	getErr    error
	putErr    error
	deleteErr error
	pageErr   error
	pageErrAt int

	lastCtx context.Context
	calls   int
}

// NewTable creates an empty mock table
func NewTable(name string) *Table {
	return &Table{
		name:  name,
		index: make(map[string]int),
	}
}

// WithGetFunc overrides GetItem entirely
func (t *Table) WithGetFunc(f func(ctx context.Context, partitionKey, rowKey string) (storagemodels.Item, error)) *Table {
	t.getFunc = f
	return t
}

// WithGetError makes GetItem return err
func (t *Table) WithGetError(err error) *Table {
	t.getErr = err
	return t
}

// WithQueryError makes the first page of every query fail with err
func (t *Table) WithQueryError(err error) *Table {
	return t.WithPageError(1, err)
}

// WithPageError makes page number page (1-based) of every query fail with err
func (t *Table) WithPageError(page int, err error) *Table {
	t.pageErr = err
	t.pageErrAt = page
	return t
}

// WithPutError makes PutItem return err
func (t *Table) WithPutError(err error) *Table {
	t.putErr = err
	return t
}

// WithDeleteError makes DeleteItem return err
func (t *Table) WithDeleteError(err error) *Table {
	t.deleteErr = err
	return t
}

// WithPageSize splits query results into pages of size items. Zero yields one page.
func (t *Table) WithPageSize(size int) *Table {
	t.pageSize = size
	return t
}

// Seed marshals each entity and stores it.
func (t *Table) Seed(entities ...any) error {
	for _, e := range entities {
		item, err := attributevalue.MarshalMap(e)
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}
		if err := t.store(item); err != nil {
			return err
		}
	}
	return nil
}

// GetItem retrieves an entity by partition key and row key
func (t *Table) GetItem(ctx context.Context, partitionKey, rowKey string) (storagemodels.Item, error) {
	t.record(ctx)
	if t.getFunc != nil {
		return t.getFunc(ctx, partitionKey, rowKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mock GetItem: %w", err)
	}
	if t.getErr != nil {
		return nil, t.getErr
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	i, ok := t.index[compositeKey(partitionKey, rowKey)]
	if !ok {
		return nil, errors.NewStoreError(404, "ResourceNotFound", "entity not found",
			errors.NewNotFoundError(t.name, partitionKey, rowKey))
	}
	return copyItem(t.items[i]), nil
}

// Query returns a lazy pager over the matching entities
func (t *Table) Query(ctx context.Context, filter storagemodels.Filter) datastore.Pager {
	t.record(ctx)
	return &pager{table: t, filter: filter}
}

// PutItem stores or replaces an entity
func (t *Table) PutItem(ctx context.Context, item storagemodels.Item) error {
	t.record(ctx)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mock PutItem: %w", err)
	}
	if t.putErr != nil {
		return t.putErr
	}
	return t.store(copyItem(item))
}

// DeleteItem removes an entity by partition key and row key
func (t *Table) DeleteItem(ctx context.Context, partitionKey, rowKey string) error {
	t.record(ctx)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mock DeleteItem: %w", err)
	}
	if t.deleteErr != nil {
		return t.deleteErr
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := compositeKey(partitionKey, rowKey)
	i, ok := t.index[key]
	if !ok {
		return errors.NewStoreError(404, "ResourceNotFound", "entity not found",
			errors.NewNotFoundError(t.name, partitionKey, rowKey))
	}

	t.items = append(t.items[:i], t.items[i+1:]...)
	t.reindex()
	return nil
}

// Helper methods for testing

// Count returns the number of stored entities
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Calls returns how many client calls the table has served
func (t *Table) Calls() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.calls
}

// LastContext returns the context passed to the most recent call
func (t *Table) LastContext() context.Context {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastCtx
}

// Clear removes all data
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = nil
	t.index = make(map[string]int)
}

func (t *Table) record(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastCtx = ctx
	t.calls++
}

func (t *Table) store(item storagemodels.Item) error {
	pk, okPK := stringAttr(item, PartitionKeyAttribute)
	rk, okRK := stringAttr(item, RowKeyAttribute)
	if !okPK || !okRK {
		return errors.NewValidationError("key", "item is missing PartitionKey or RowKey")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := compositeKey(pk, rk)
	if i, exists := t.index[key]; exists {
		t.items[i] = item
		return nil
	}
	t.index[key] = len(t.items)
	t.items = append(t.items, item)
	return nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.items))
	for i, item := range t.items {
		pk, _ := stringAttr(item, PartitionKeyAttribute)
		rk, _ := stringAttr(item, RowKeyAttribute)
		t.index[compositeKey(pk, rk)] = i
	}
}

// matching snapshots the items satisfying filter.
func (t *Table) matching(filter storagemodels.Filter) ([]storagemodels.Item, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []storagemodels.Item
	for _, item := range t.items {
		if filter.PartitionKey != "" {
			if pk, _ := stringAttr(item, PartitionKeyAttribute); pk != filter.PartitionKey {
				continue
			}
		}
		ok, err := matchAll(item, filter.Conditions)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, copyItem(item))
		}
	}
	return out, nil
}

type pager struct {
	table  *Table
	filter storagemodels.Filter
	pages  [][]storagemodels.Item
	loaded bool
	next   int
	failed bool
}

func (p *pager) HasMorePages() bool {
	if p.failed {
		return false
	}
	return !p.loaded || p.next < len(p.pages)
}

func (p *pager) NextPage(ctx context.Context) ([]storagemodels.Item, error) {
	p.table.record(ctx)
	if err := ctx.Err(); err != nil {
		p.failed = true
		return nil, fmt.Errorf("mock Query: %w", err)
	}
	if !p.loaded {
		if err := p.load(); err != nil {
			p.failed = true
			return nil, err
		}
	}
	if p.table.pageErr != nil && p.table.pageErrAt == p.next+1 {
		p.failed = true
		return nil, p.table.pageErr
	}
	if p.next >= len(p.pages) {
		return nil, fmt.Errorf("mock Query: no more pages")
	}

	page := p.pages[p.next]
	p.next++
	return page, nil
}

func (p *pager) load() error {
	items, err := p.table.matching(p.filter)
	if err != nil {
		return err
	}
	p.loaded = true

	size := p.table.pageSize
	if p.filter.PageSize > 0 {
		size = int(p.filter.PageSize)
	}
	if size <= 0 {
		p.pages = [][]storagemodels.Item{items}
		return nil
	}
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		p.pages = append(p.pages, items[start:end])
	}
	if len(p.pages) == 0 {
		p.pages = [][]storagemodels.Item{{}}
	}
	return nil
}

func compositeKey(pk, rk string) string {
	return fmt.Sprintf("%s|%s", pk, rk)
}

func stringAttr(item storagemodels.Item, name string) (string, bool) {
	s, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func copyItem(item storagemodels.Item) storagemodels.Item {
	out := make(storagemodels.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// Keys returns the sorted composite keys of the stored entities (for debugging failed tests).
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
