/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/tablestore/storagemodels"
)

// ClientFactory resolves a store client by logical name (for example "test" or "prod").
// The logical name is independent of any physical table name.
type ClientFactory interface {
	CreateClient(name string) (ServiceClient, error)
}

// ServiceClient is a connection to one store account.
type ServiceClient interface {
	TableClient(tableName string) TableClient
}

// TableClient performs remote calls against a single table.
// Every method must honour ctx cancellation.
type TableClient interface {
	// GetItem returns the entity addressed by partition key and row key.
	// A missing entity is reported as an error matching errors.ErrNotFound.
	GetItem(ctx context.Context, partitionKey, rowKey string) (storagemodels.Item, error)

	// Query returns a lazy, paginated sequence of entities matching filter.
	// No remote call happens until the first NextPage.
	Query(ctx context.Context, filter storagemodels.Filter) Pager

	PutItem(ctx context.Context, item storagemodels.Item) error

	// DeleteItem removes an entity. A missing entity is reported as an error
	// matching errors.ErrNotFound.
	DeleteItem(ctx context.Context, partitionKey, rowKey string) error
}

// Pager walks the pages of a query result in order.
type Pager interface {
	HasMorePages() bool
	NextPage(ctx context.Context) ([]storagemodels.Item, error)
}
