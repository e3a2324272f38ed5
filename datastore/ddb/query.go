/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// Query returns a lazy pager over the items matching filter. A filter with a
// partition key becomes a DynamoDB Query on that partition; otherwise the
// table (or index) is scanned. Filter conditions become a FilterExpression.
func (t *TableClient) Query(_ context.Context, filter storagemodels.Filter) datastore.Pager {
	keys := keySchema{partition: t.table.PartitionKey, row: t.table.RowKey}
	if filter.IndexName != "" {
		idx, ok := t.table.Index(filter.IndexName)
		if !ok {
			return &failedPager{err: errors.NewValidationError("IndexName",
				fmt.Sprintf("index %q is not configured for table %q", filter.IndexName, t.table.Name))}
		}
		keys = keySchema{partition: idx.PartitionKey, row: idx.RowKey}
	}

	expr, hasExpr, err := buildExpression(filter, keys)
	if err != nil {
		return &failedPager{err: err}
	}

	var limit *int32
	if filter.PageSize > 0 {
		limit = aws.Int32(filter.PageSize)
	}
	var indexName *string
	if filter.IndexName != "" {
		indexName = aws.String(filter.IndexName)
	}

	if filter.PartitionKey != "" {
		input := &sdk.QueryInput{
			TableName:                 aws.String(t.table.Name),
			IndexName:                 indexName,
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     limit,
		}
		return &queryPager{p: sdk.NewQueryPaginator(t.api, input)}
	}

	input := &sdk.ScanInput{
		TableName: aws.String(t.table.Name),
		IndexName: indexName,
		Limit:     limit,
	}
	if hasExpr {
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	return &scanPager{p: sdk.NewScanPaginator(t.api, input)}
}

// keySchema names the key attributes of the table or index being read.
type keySchema struct {
	partition string
	row       string
}

// buildExpression compiles the filter. hasExpr is false for an unrestricted scan.
// On a partition query a condition on the row key joins the key condition,
// since DynamoDB rejects key attributes in a query's FilterExpression.
func buildExpression(filter storagemodels.Filter, keys keySchema) (expr expression.Expression, hasExpr bool, err error) {
	builder := expression.NewBuilder()

	conditions := filter.Conditions
	if filter.PartitionKey != "" {
		keyCond := expression.Key(keys.partition).Equal(expression.Value(filter.PartitionKey))
		conditions = make([]storagemodels.Condition, 0, len(filter.Conditions))
		rowBound := false
		for _, c := range filter.Conditions {
			switch {
			case c.Attribute == keys.partition:
				return expr, false, errors.NewValidationError(c.Attribute,
					"partition key is already fixed by the filter partition")
			case keys.row != "" && c.Attribute == keys.row:
				if rowBound {
					return expr, false, errors.NewValidationError(c.Attribute,
						"only one condition on the row key is supported")
				}
				rowCond, err := keyConditionFor(c)
				if err != nil {
					return expr, false, err
				}
				keyCond = keyCond.And(rowCond)
				rowBound = true
			default:
				conditions = append(conditions, c)
			}
		}
		builder = builder.WithKeyCondition(keyCond)
		hasExpr = true
	}

	conds := make([]expression.ConditionBuilder, 0, len(conditions))
	for _, c := range conditions {
		cond, err := conditionFor(c)
		if err != nil {
			return expr, false, err
		}
		conds = append(conds, cond)
	}
	switch len(conds) {
	case 0:
	case 1:
		builder = builder.WithFilter(conds[0])
		hasExpr = true
	default:
		builder = builder.WithFilter(expression.And(conds[0], conds[1], conds[2:]...))
		hasExpr = true
	}

	if !hasExpr {
		return expr, false, nil
	}
	expr, err = builder.Build()
	if err != nil {
		return expr, false, fmt.Errorf("failed to build filter expression: %w", err)
	}
	return expr, true, nil
}

func keyConditionFor(c storagemodels.Condition) (expression.KeyConditionBuilder, error) {
	key := expression.Key(c.Attribute)
	value := expression.Value(c.Value)

	switch c.Operator {
	case storagemodels.OpEqual:
		return key.Equal(value), nil
	case storagemodels.OpLessThan:
		return key.LessThan(value), nil
	case storagemodels.OpLessOrEqual:
		return key.LessThanEqual(value), nil
	case storagemodels.OpGreaterThan:
		return key.GreaterThan(value), nil
	case storagemodels.OpGreaterOrEqual:
		return key.GreaterThanEqual(value), nil
	case storagemodels.OpBeginsWith:
		return key.BeginsWith(fmt.Sprint(c.Value)), nil
	default:
		return expression.KeyConditionBuilder{}, errors.NewValidationError(c.Attribute,
			fmt.Sprintf("operator %q is not supported on the row key", c.Operator))
	}
}

func conditionFor(c storagemodels.Condition) (expression.ConditionBuilder, error) {
	name := expression.Name(c.Attribute)
	value := expression.Value(c.Value)

	switch c.Operator {
	case storagemodels.OpEqual:
		return name.Equal(value), nil
	case storagemodels.OpNotEqual:
		return name.NotEqual(value), nil
	case storagemodels.OpLessThan:
		return name.LessThan(value), nil
	case storagemodels.OpLessOrEqual:
		return name.LessThanEqual(value), nil
	case storagemodels.OpGreaterThan:
		return name.GreaterThan(value), nil
	case storagemodels.OpGreaterOrEqual:
		return name.GreaterThanEqual(value), nil
	case storagemodels.OpBeginsWith:
		return name.BeginsWith(fmt.Sprint(c.Value)), nil
	default:
		return expression.ConditionBuilder{}, errors.NewValidationError(c.Attribute,
			fmt.Sprintf("unsupported operator %q", c.Operator))
	}
}

type queryPager struct {
	p *sdk.QueryPaginator
}

func (q *queryPager) HasMorePages() bool {
	return q.p.HasMorePages()
}

func (q *queryPager) NextPage(ctx context.Context) ([]storagemodels.Item, error) {
	out, err := q.p.NextPage(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return out.Items, nil
}

type scanPager struct {
	p *sdk.ScanPaginator
}

func (s *scanPager) HasMorePages() bool {
	return s.p.HasMorePages()
}

func (s *scanPager) NextPage(ctx context.Context) ([]storagemodels.Item, error) {
	out, err := s.p.NextPage(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return out.Items, nil
}

// failedPager reports a request that could not be built on its first page.
type failedPager struct {
	err  error
	done bool
}

func (f *failedPager) HasMorePages() bool {
	return !f.done
}

func (f *failedPager) NextPage(context.Context) ([]storagemodels.Item, error) {
	f.done = true
	return nil, f.err
}
