/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"
	"slices"

	"github.com/suparena/tablestore/errors"
)

// Kind names the variant held by an Outcome.
type Kind int

const (
	KindEmpty Kind = iota + 1
	KindSingle
	KindCollection
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSingle:
		return "single"
	case KindCollection:
		return "collection"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the classified shape of a store response. The variant set is
// closed: EmptyOutcome, SingleOutcome[T], CollectionOutcome[T] and
// FailedOutcome. Values are only built inside this package.
type Outcome interface {
	Kind() Kind
	isOutcome()
}

// EmptyOutcome carries no payload.
type EmptyOutcome struct{}

func (EmptyOutcome) Kind() Kind { return KindEmpty }
func (EmptyOutcome) isOutcome() {}

// SingleOutcome holds exactly one entity.
type SingleOutcome[T any] struct {
	entity T
}

func (SingleOutcome[T]) Kind() Kind { return KindSingle }
func (SingleOutcome[T]) isOutcome() {}

// Entity returns the held entity.
func (o SingleOutcome[T]) Entity() T { return o.entity }

// CollectionOutcome holds an ordered, never-nil sequence of entities.
type CollectionOutcome[T any] struct {
	entities []T
}

func (CollectionOutcome[T]) Kind() Kind { return KindCollection }
func (CollectionOutcome[T]) isOutcome() {}

// Entities returns a copy of the held entities. The result is never nil.
func (o CollectionOutcome[T]) Entities() []T {
	if o.entities == nil {
		return []T{}
	}
	return slices.Clone(o.entities)
}

// Len returns the number of held entities.
func (o CollectionOutcome[T]) Len() int { return len(o.entities) }

// FailedOutcome describes a failed store call. Cause is kept for diagnostics
// and may be nil.
type FailedOutcome struct {
	code    errors.Code
	message string
	cause   error
}

func (FailedOutcome) Kind() Kind { return KindFailed }
func (FailedOutcome) isOutcome() {}

func (o FailedOutcome) Code() errors.Code { return o.code }
func (o FailedOutcome) Message() string   { return o.message }
func (o FailedOutcome) Cause() error      { return o.cause }

func (o FailedOutcome) Error() string {
	if o.cause != nil {
		return fmt.Sprintf("%s: %s: %v", o.code, o.message, o.cause)
	}
	return fmt.Sprintf("%s: %s", o.code, o.message)
}

func (o FailedOutcome) Unwrap() error { return o.cause }

func emptyOutcome() EmptyOutcome {
	return EmptyOutcome{}
}

func singleOutcome[T any](entity T) SingleOutcome[T] {
	return SingleOutcome[T]{entity: entity}
}

// collectionOutcome copies entities; a nil input becomes an empty sequence.
func collectionOutcome[T any](entities []T) CollectionOutcome[T] {
	out := make([]T, len(entities))
	copy(out, entities)
	return CollectionOutcome[T]{entities: out}
}

func failedOutcome(code errors.Code, message string, cause error) FailedOutcome {
	return FailedOutcome{code: code, message: message, cause: cause}
}
