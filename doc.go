/*
Package tablestore classifies the result of reading entities from a
key-addressed table store into a small closed set of outcomes.

Every read returns a query.Operation that is exactly one of:
  - query.QuerySingleOperation[T] for a single entity
  - query.QueryListOperation[T] for a non-empty list
  - query.CommandOperation for a successful upsert or delete
  - query.FailedOperation carrying an errors.Code

Backends implement the datastore interfaces. The ddb package talks to
DynamoDB; the mock package keeps tables in memory for tests.

Basic Usage:

	cfg, _ := config.Load("tablestore.yaml")
	reg := tablestore.NewRegistry(tablestore.WithFallback(ddb.NewFactory(cfg)))
	_ = tablestore.Bind[Product](reg, "default", "products")

	products, _ := tablestore.Open[Product](reg)
	switch op := products.Get(ctx, "TECH", "PROD1").(type) {
	case query.QuerySingleOperation[Product]:
	    fmt.Println(op.Entity().Price)
	case query.FailedOperation:
	    if op.Code() == errors.EntityDoesNotExist {
	        // handle missing entity
	    }
	}
*/
package tablestore
