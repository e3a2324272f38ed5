/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"

	"github.com/suparena/tablestore/errors"
)

// Operation is the caller-facing result of a table action. The variant set is
// closed: QuerySingleOperation[T], QueryListOperation[T], CommandOperation and
// FailedOperation.
type Operation interface {
	Outcome() Outcome
	isOperation()
}

// QuerySingleOperation is a successful point lookup.
type QuerySingleOperation[T any] struct {
	result SingleOutcome[T]
}

func (o QuerySingleOperation[T]) Outcome() Outcome { return o.result }
func (QuerySingleOperation[T]) isOperation()       {}

// Entity returns the entity found by the lookup.
func (o QuerySingleOperation[T]) Entity() T { return o.result.Entity() }

// QueryListOperation is a successful filtered query holding at least one entity.
type QueryListOperation[T any] struct {
	result CollectionOutcome[T]
}

func (o QueryListOperation[T]) Outcome() Outcome { return o.result }
func (QueryListOperation[T]) isOperation()       {}

// Entities returns the matched entities in the order the store yielded them.
func (o QueryListOperation[T]) Entities() []T { return o.result.Entities() }

// Len returns the number of matched entities.
func (o QueryListOperation[T]) Len() int { return o.result.Len() }

// CommandOperation is a successful write (upsert or delete).
type CommandOperation struct {
	command string
}

func (CommandOperation) Outcome() Outcome { return emptyOutcome() }
func (CommandOperation) isOperation()     {}

// Command names the write that succeeded, "upsert" or "delete".
func (o CommandOperation) Command() string { return o.command }

// FailedOperation is any failed action. It implements error so it can be
// returned directly; Unwrap exposes the store fault.
type FailedOperation struct {
	failure FailedOutcome
}

func (o FailedOperation) Outcome() Outcome { return o.failure }
func (FailedOperation) isOperation()       {}

// Failure returns the wrapped failed outcome.
func (o FailedOperation) Failure() FailedOutcome { return o.failure }

func (o FailedOperation) Code() errors.Code { return o.failure.Code() }
func (o FailedOperation) Message() string   { return o.failure.Message() }
func (o FailedOperation) Cause() error      { return o.failure.Cause() }
func (o FailedOperation) Error() string     { return o.failure.Error() }
func (o FailedOperation) Unwrap() error     { return o.failure.Cause() }

func failedOperation(code errors.Code, message string, cause error) FailedOperation {
	return FailedOperation{failure: failedOutcome(code, message, cause)}
}

// AsSingle returns the entity of a QuerySingleOperation[T].
func AsSingle[T any](op Operation) (T, bool) {
	s, ok := op.(QuerySingleOperation[T])
	if !ok {
		var zero T
		return zero, false
	}
	return s.Entity(), true
}

// AsList returns the entities of a QueryListOperation[T].
func AsList[T any](op Operation) ([]T, bool) {
	l, ok := op.(QueryListOperation[T])
	if !ok {
		return nil, false
	}
	return l.Entities(), true
}

// AsFailed returns op as a FailedOperation.
func AsFailed(op Operation) (FailedOperation, bool) {
	f, ok := op.(FailedOperation)
	return f, ok
}

// Handlers holds one callback per Operation variant for Match.
type Handlers[T any] struct {
	Single  func(entity T)
	List    func(entities []T)
	Command func(op CommandOperation)
	Failed  func(op FailedOperation)
}

// Match dispatches op to the handler for its variant. It panics when that
// handler is nil or when op's variant does not belong to entity type T, so a
// call site that forgets a variant fails loudly instead of silently.
func Match[T any](op Operation, h Handlers[T]) {
	switch v := op.(type) {
	case QuerySingleOperation[T]:
		mustHandle(h.Single != nil, "Single", op)
		h.Single(v.Entity())
	case QueryListOperation[T]:
		mustHandle(h.List != nil, "List", op)
		h.List(v.Entities())
	case CommandOperation:
		mustHandle(h.Command != nil, "Command", op)
		h.Command(v)
	case FailedOperation:
		mustHandle(h.Failed != nil, "Failed", op)
		h.Failed(v)
	default:
		panic(fmt.Sprintf("query: unhandled operation %T", op))
	}
}

func mustHandle(present bool, variant string, op Operation) {
	if !present {
		panic(fmt.Sprintf("query: no %s handler for operation %T", variant, op))
	}
}
