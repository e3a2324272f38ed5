/*
Package query classifies the result of a store call into exactly one
Operation.

Lookups and scans never return (value, error) pairs. Callers receive an
Operation and dispatch on its variant:

	op := query.GetEntity[Product](ctx, svc, "default", "products", "TECH", "PROD1")
	query.Match(op, query.Handlers[Product]{
	    Single:  func(p Product) { ... },
	    List:    func(ps []Product) { ... },
	    Command: func(query.CommandOperation) { ... },
	    Failed:  func(f query.FailedOperation) { ... },
	})

Failures carry one of three codes from the errors package:
  - EntityDoesNotExist when a lookup finds nothing
  - EntityListDoesNotExist when a scan yields no entities
  - OperationFailed for any other fault, with the cause attached

An empty scan is always a failure, never an empty success.
*/
package query
