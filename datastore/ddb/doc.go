/*
Package ddb provides a DynamoDB implementation of the datastore boundary.

A Factory turns a config.Config into per-store ServiceClients, creating one
AWS SDK client per logical store on first use:

	cfg, _ := config.Load("tablestore.yaml")
	factory := ddb.NewFactory(cfg)
	svc := query.NewTableService(factory)

	op := query.GetEntity[Product](ctx, svc, "default", "products", "TECH", "PROD1")

Filters map onto DynamoDB requests:
  - a Filter with a PartitionKey becomes a Query on that partition
  - a Filter without one becomes a Scan of the table or index
  - Conditions become a FilterExpression built with the expression package

SDK errors are translated into *errors.StoreError values carrying the HTTP
status and service error code. A missing item is reported with status 404.
*/
package ddb
