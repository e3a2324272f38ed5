/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// API is the subset of the DynamoDB client used by the table client.
// *dynamodb.Client satisfies it.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	sdk.QueryAPIClient
	sdk.ScanAPIClient
}

// NewDynamoDBClient initializes a DynamoDB client for one configured store.
func NewDynamoDBClient(ctx context.Context, store config.StoreConfig) (*sdk.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(store.Region),
	}
	if store.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(store.AccessKey, store.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if store.Endpoint != "" {
			o.BaseEndpoint = aws.String(store.Endpoint)
		}
	}), nil
}

// ServiceClient implements datastore.ServiceClient for one DynamoDB account.
type ServiceClient struct {
	api   API
	store config.StoreConfig
}

// NewServiceClient wraps api using the table definitions of store.
func NewServiceClient(api API, store config.StoreConfig) *ServiceClient {
	return &ServiceClient{api: api, store: store}
}

// TableClient returns a client for a logical table name.
func (s *ServiceClient) TableClient(tableName string) datastore.TableClient {
	return &TableClient{api: s.api, table: s.store.Table(tableName)}
}

// TableClient implements datastore.TableClient on a single DynamoDB table.
type TableClient struct {
	api   API
	table config.TableConfig
}

// GetItem retrieves a single item by partition key and row key.
// A missing item is reported as a StoreError with status 404.
func (t *TableClient) GetItem(ctx context.Context, partitionKey, rowKey string) (storagemodels.Item, error) {
	out, err := t.api.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(t.table.Name),
		Key:       t.key(partitionKey, rowKey),
	})
	if err != nil {
		return nil, translate(err)
	}
	if out == nil || out.Item == nil {
		return nil, notFound(t.table.Name, partitionKey, rowKey, nil)
	}
	return out.Item, nil
}

// PutItem stores item, replacing any item with the same keys.
func (t *TableClient) PutItem(ctx context.Context, item storagemodels.Item) error {
	for _, attr := range []string{t.table.PartitionKey, t.table.RowKey} {
		if _, ok := item[attr].(*types.AttributeValueMemberS); !ok {
			return errors.NewValidationError(attr, "key attribute must be a string")
		}
	}

	_, err := t.api.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(t.table.Name),
		Item:      item,
	})
	if err != nil {
		return translate(err)
	}
	return nil
}

// DeleteItem removes an item. The delete is conditional on the item existing
// so that a missing item is reported instead of silently ignored.
func (t *TableClient) DeleteItem(ctx context.Context, partitionKey, rowKey string) error {
	cond := expression.AttributeExists(expression.Name(t.table.PartitionKey))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build delete condition: %w", err)
	}

	_, err = t.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                 aws.String(t.table.Name),
		Key:                       t.key(partitionKey, rowKey),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			failed := errors.NewConditionFailedError("delete", fmt.Sprintf("attribute_exists(%s)", t.table.PartitionKey))
			return notFound(t.table.Name, partitionKey, rowKey, fmt.Errorf("%w: %w", failed, err))
		}
		return translate(err)
	}
	return nil
}

func (t *TableClient) key(partitionKey, rowKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		t.table.PartitionKey: &types.AttributeValueMemberS{Value: partitionKey},
		t.table.RowKey:       &types.AttributeValueMemberS{Value: rowKey},
	}
}
