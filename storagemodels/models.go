/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a raw entity as returned by the store, before decoding.
type Item = map[string]types.AttributeValue

// Operator is a comparison used by a filter Condition.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "<>"
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpBeginsWith     Operator = "begins_with"
)

// Condition compares one entity attribute against a value.
type Condition struct {
	Attribute string
	Operator  Operator
	Value     any
}

func (c Condition) String() string {
	if c.Operator == OpBeginsWith {
		return fmt.Sprintf("begins_with(%s, %v)", c.Attribute, c.Value)
	}
	return fmt.Sprintf("%s %s %v", c.Attribute, c.Operator, c.Value)
}

// Eq builds an equality condition.
func Eq(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Operator: OpEqual, Value: value}
}

// Ne builds an inequality condition.
func Ne(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Operator: OpNotEqual, Value: value}
}

// Lt builds a less-than condition.
func Lt(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Operator: OpLessThan, Value: value}
}

// Le builds a less-than-or-equal condition.
func Le(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Operator: OpLessOrEqual, Value: value}
}

// Gt builds a greater-than condition.
func Gt(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Operator: OpGreaterThan, Value: value}
}

// Ge builds a greater-than-or-equal condition.
func Ge(attribute string, value any) Condition {
	return Condition{Attribute: attribute, Operator: OpGreaterOrEqual, Value: value}
}

// BeginsWith builds a string prefix condition.
func BeginsWith(attribute, prefix string) Condition {
	return Condition{Attribute: attribute, Operator: OpBeginsWith, Value: prefix}
}

// Filter selects the entities returned by a table query.
// All conditions must hold for an entity to match.
type Filter struct {
	// PartitionKey restricts the query to a single partition. When empty the
	// whole table is scanned.
	PartitionKey string
	// IndexName is optional if you wish to query a secondary index.
	IndexName string
	// Conditions are ANDed together.
	Conditions []Condition
	// PageSize is the number of items the store evaluates per page. Zero leaves
	// the store default in place.
	PageSize int32
}

// Where returns a Filter matching every condition.
func Where(conditions ...Condition) Filter {
	return Filter{Conditions: conditions}
}

// InPartition returns a copy of f restricted to the given partition.
func (f Filter) InPartition(partitionKey string) Filter {
	f.PartitionKey = partitionKey
	return f
}

// OnIndex returns a copy of f targeting a secondary index.
func (f Filter) OnIndex(indexName string) Filter {
	f.IndexName = indexName
	return f
}

// WithPageSize returns a copy of f with the page size set.
func (f Filter) WithPageSize(size int32) Filter {
	f.PageSize = size
	return f
}

func (f Filter) String() string {
	parts := make([]string, 0, len(f.Conditions)+1)
	if f.PartitionKey != "" {
		parts = append(parts, fmt.Sprintf("partition = %s", f.PartitionKey))
	}
	for _, c := range f.Conditions {
		parts = append(parts, c.String())
	}
	if len(parts) == 0 {
		return "<all>"
	}
	return strings.Join(parts, " AND ")
}
