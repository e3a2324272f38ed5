/*
Package errors provides semantic error types for tablestore.

Operation codes:
The classifier reports failures with one of a fixed set of numeric codes:

	EntityDoesNotExist     = 1001 // point lookup missed
	EntityListDoesNotExist = 1002 // filtered query matched nothing
	OperationFailed        = 1003 // any other store fault

Faults:
Store clients report faults as *StoreError, which carries an HTTP-like status
code, the service error code and message, and the underlying cause. A status of
404 matches ErrNotFound:

	item, err := table.GetItem(ctx, "TECH", "PROD1")
	if errors.IsNotFound(err) {
	    // entity is absent
	}

Common Errors:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrAlreadyExists   = errors.New("entity already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrUnknownStore    = errors.New("unknown store")
	)

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
