/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/tablestore/storagemodels"
)

// matchAll reports whether item satisfies every condition.
// An item lacking the attribute never matches, as in DynamoDB.
func matchAll(item storagemodels.Item, conditions []storagemodels.Condition) (bool, error) {
	for _, c := range conditions {
		ok, err := match(item, c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func match(item storagemodels.Item, c storagemodels.Condition) (bool, error) {
	actual, ok := item[c.Attribute]
	if !ok {
		return false, nil
	}
	want, err := attributevalue.Marshal(c.Value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal condition value for %q: %w", c.Attribute, err)
	}

	if c.Operator == storagemodels.OpBeginsWith {
		a, okA := actual.(*types.AttributeValueMemberS)
		w, okW := want.(*types.AttributeValueMemberS)
		return okA && okW && strings.HasPrefix(a.Value, w.Value), nil
	}

	if _, isBool := actual.(*types.AttributeValueMemberBOOL); isBool && ordered(c.Operator) {
		// Booleans only support equality.
		return false, nil
	}

	cmp, comparable, err := compare(actual, want)
	if err != nil {
		return false, err
	}
	if !comparable {
		// Mismatched types only ever satisfy "not equal".
		return c.Operator == storagemodels.OpNotEqual, nil
	}

	switch c.Operator {
	case storagemodels.OpEqual:
		return cmp == 0, nil
	case storagemodels.OpNotEqual:
		return cmp != 0, nil
	case storagemodels.OpLessThan:
		return cmp < 0, nil
	case storagemodels.OpLessOrEqual:
		return cmp <= 0, nil
	case storagemodels.OpGreaterThan:
		return cmp > 0, nil
	case storagemodels.OpGreaterOrEqual:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", c.Operator)
	}
}

func ordered(op storagemodels.Operator) bool {
	switch op {
	case storagemodels.OpLessThan, storagemodels.OpLessOrEqual, storagemodels.OpGreaterThan, storagemodels.OpGreaterOrEqual:
		return true
	}
	return false
}

// compare orders S and N values. BOOL values only compare equal or not.
func compare(a, b types.AttributeValue) (int, bool, error) {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		if !ok {
			return 0, false, nil
		}
		return strings.Compare(av.Value, bv.Value), true, nil

	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return 0, false, nil
		}
		x, err := strconv.ParseFloat(av.Value, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q: %w", av.Value, err)
		}
		y, err := strconv.ParseFloat(bv.Value, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q: %w", bv.Value, err)
		}
		switch {
		case x < y:
			return -1, true, nil
		case x > y:
			return 1, true, nil
		default:
			return 0, true, nil
		}

	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		if !ok {
			return 0, false, nil
		}
		if av.Value == bv.Value {
			return 0, true, nil
		}
		return 1, true, nil

	default:
		return 0, false, nil
	}
}
