/*
Package datastore defines the boundary between tablestore and the remote table store client.

The store is addressed by partition key + row key. Three interfaces describe it:

	type ClientFactory interface {
	    CreateClient(name string) (ServiceClient, error)
	}

	type ServiceClient interface {
	    TableClient(tableName string) TableClient
	}

	type TableClient interface {
	    GetItem(ctx context.Context, partitionKey, rowKey string) (storagemodels.Item, error)
	    Query(ctx context.Context, filter storagemodels.Filter) Pager
	    PutItem(ctx context.Context, item storagemodels.Item) error
	    DeleteItem(ctx context.Context, partitionKey, rowKey string) error
	}

Implementations:
  - ddb: DynamoDB implementation
  - mock: In-memory implementation for testing

Faults are reported as *errors.StoreError; a status of 404 is the not-found signal.
*/
package datastore
