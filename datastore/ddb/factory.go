/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
)

// APIConstructor builds the DynamoDB API for a configured store.
type APIConstructor func(ctx context.Context, store config.StoreConfig) (API, error)

// Factory implements datastore.ClientFactory from a Config. Clients are built
// on first use and reused afterwards.
type Factory struct {
	cfg    *config.Config
	newAPI APIConstructor
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*ServiceClient
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithAPIConstructor replaces the default DynamoDB client construction.
func WithAPIConstructor(fn APIConstructor) FactoryOption {
	return func(f *Factory) {
		f.newAPI = fn
	}
}

// WithFactoryLogger sets the logger used when clients are created.
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory creates a Factory for the stores in cfg.
func NewFactory(cfg *config.Config, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg: cfg,
		newAPI: func(ctx context.Context, store config.StoreConfig) (API, error) {
			return NewDynamoDBClient(ctx, store)
		},
		logger:  slog.Default(),
		clients: make(map[string]*ServiceClient),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateClient returns the client for a logical store name.
func (f *Factory) CreateClient(name string) (datastore.ServiceClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[name]; ok {
		return client, nil
	}

	store, err := f.cfg.Store(name)
	if err != nil {
		return nil, err
	}

	api, err := f.newAPI(context.Background(), store)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client for store %q: %w", name, err)
	}

	client := NewServiceClient(api, store)
	f.clients[name] = client
	f.logger.Info("DynamoDB client initialized",
		slog.String("store", name),
		slog.String("region", store.Region),
		slog.String("endpoint", store.Endpoint),
	)
	return client, nil
}
