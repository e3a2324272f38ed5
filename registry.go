/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/query"
)

// Registry maps logical store names to service clients. It implements
// datastore.ClientFactory, so it can back a query.TableService directly.
// Names that were never registered are resolved through the fallback
// factory, when one is set.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]datastore.ServiceClient
	bindings map[reflect.Type]binding
	fallback datastore.ClientFactory
	svc      *query.TableService
}

type binding struct {
	store string
	table string
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	fallback datastore.ClientFactory
	logger   *slog.Logger
}

// WithFallback resolves unregistered store names through factory.
func WithFallback(factory datastore.ClientFactory) RegistryOption {
	return func(o *registryOptions) {
		o.fallback = factory
	}
}

// WithRegistryLogger sets the logger of the registry's TableService.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		clients:  make(map[string]datastore.ServiceClient),
		bindings: make(map[reflect.Type]binding),
		fallback: o.fallback,
	}
	var svcOpts []query.Option
	if o.logger != nil {
		svcOpts = append(svcOpts, query.WithLogger(o.logger))
	}
	r.svc = query.NewTableService(r, svcOpts...)
	return r
}

// Register adds a service client under name.
func (r *Registry) Register(name string, client datastore.ServiceClient) error {
	if client == nil {
		return errors.NewValidationError("client", "service client must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[name]; exists {
		return errors.NewAlreadyExistsError("store", name)
	}
	r.clients[name] = client
	return nil
}

// Remove unregisters the client registered under name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[name]; !exists {
		return fmt.Errorf("%w: %q", errors.ErrUnknownStore, name)
	}
	delete(r.clients, name)
	return nil
}

// Names returns the registered store names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateClient returns the client registered under name.
func (r *Registry) CreateClient(name string) (datastore.ServiceClient, error) {
	r.mu.RLock()
	client, ok := r.clients[name]
	fallback := r.fallback
	r.mu.RUnlock()

	if ok {
		return client, nil
	}
	if fallback != nil {
		return fallback.CreateClient(name)
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStore, name)
}

// Service returns the TableService classifying calls against this registry.
func (r *Registry) Service() *query.TableService {
	return r.svc
}

// Bind associates the entity type T with a store and table, so that Open
// can build a Table[T] without repeating them. A type can be bound once.
func Bind[T any](r *Registry, store, table string) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[typ]; exists {
		return errors.NewAlreadyExistsError("type binding", typ.String())
	}
	r.bindings[typ] = binding{store: store, table: table}
	return nil
}

// Open returns the Table[T] bound with Bind.
func Open[T any](r *Registry) (*Table[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.RLock()
	b, ok := r.bindings[typ]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("type %s is not bound to a table", typ)
	}
	return NewTable[T](r.svc, b.store, b.table), nil
}
