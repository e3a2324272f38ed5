/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// TableService classifies store responses into Operations. It holds no
// per-call state and is safe for concurrent use.
type TableService struct {
	factory datastore.ClientFactory
	logger  *slog.Logger
}

// Option configures a TableService.
type Option func(*TableService)

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *TableService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTableService creates a TableService resolving store clients through factory.
func NewTableService(factory datastore.ClientFactory, opts ...Option) *TableService {
	s := &TableService{
		factory: factory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetEntity looks up the entity addressed by partitionKey and rowKey.
//
// It returns QuerySingleOperation[T] when the entity exists, FailedOperation
// with EntityDoesNotExist when the store reports it missing, and
// FailedOperation with OperationFailed for every other fault. ctx is handed
// to the store client unchanged.
func GetEntity[T any](ctx context.Context, s *TableService, storeName, tableName, partitionKey, rowKey string) (op Operation) {
	c := s.begin(ctx, "get_entity", storeName, tableName)
	defer func() { op = c.finish(op, recover()) }()

	client, err := s.tableClient(storeName, tableName)
	if err != nil {
		return resolveFailure(storeName, err)
	}

	item, err := client.GetItem(ctx, partitionKey, rowKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return failedOperation(errors.EntityDoesNotExist, notFoundMessage(tableName, partitionKey, rowKey), err)
		}
		return failedOperation(errors.OperationFailed, faultMessage("lookup", tableName, err), err)
	}
	if item == nil {
		return failedOperation(errors.EntityDoesNotExist, notFoundMessage(tableName, partitionKey, rowKey),
			errors.NewNotFoundError(tableName, partitionKey, rowKey))
	}

	var entity T
	if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
		return failedOperation(errors.OperationFailed, fmt.Sprintf("failed to decode entity from table %q", tableName), err)
	}
	return QuerySingleOperation[T]{result: singleOutcome(entity)}
}

// GetEntityList drains every page of the entities matching filter.
//
// It returns QueryListOperation[T] holding the entities in store order when at
// least one matched, FailedOperation with EntityListDoesNotExist when none did,
// and FailedOperation with OperationFailed for any fault while paging or
// decoding. ctx is handed to the store client unchanged.
func GetEntityList[T any](ctx context.Context, s *TableService, storeName, tableName string, filter storagemodels.Filter) (op Operation) {
	c := s.begin(ctx, "get_entity_list", storeName, tableName)
	defer func() { op = c.finish(op, recover()) }()

	client, err := s.tableClient(storeName, tableName)
	if err != nil {
		return resolveFailure(storeName, err)
	}

	entities := make([]T, 0)
	pager := client.Query(ctx, filter)
	for pager != nil && pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return failedOperation(errors.OperationFailed, faultMessage("query", tableName, err), err)
		}
		for _, item := range page {
			var entity T
			if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
				return failedOperation(errors.OperationFailed, fmt.Sprintf("failed to decode entity from table %q", tableName), err)
			}
			entities = append(entities, entity)
		}
	}

	if len(entities) == 0 {
		return failedOperation(errors.EntityListDoesNotExist,
			fmt.Sprintf("no entities in table %q match %s", tableName, filter), nil)
	}
	return QueryListOperation[T]{result: collectionOutcome(entities)}
}

// UpsertEntity inserts entity or replaces the stored entity with the same keys.
func UpsertEntity[T any](ctx context.Context, s *TableService, storeName, tableName string, entity T) (op Operation) {
	c := s.begin(ctx, "upsert_entity", storeName, tableName)
	defer func() { op = c.finish(op, recover()) }()

	client, err := s.tableClient(storeName, tableName)
	if err != nil {
		return resolveFailure(storeName, err)
	}

	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return failedOperation(errors.OperationFailed, fmt.Sprintf("failed to encode entity for table %q", tableName), err)
	}
	if err := client.PutItem(ctx, item); err != nil {
		return failedOperation(errors.OperationFailed, faultMessage("upsert", tableName, err), err)
	}
	return CommandOperation{command: "upsert"}
}

// DeleteEntity removes the entity addressed by partitionKey and rowKey.
// A missing entity yields FailedOperation with EntityDoesNotExist.
func DeleteEntity(ctx context.Context, s *TableService, storeName, tableName, partitionKey, rowKey string) (op Operation) {
	c := s.begin(ctx, "delete_entity", storeName, tableName)
	defer func() { op = c.finish(op, recover()) }()

	client, err := s.tableClient(storeName, tableName)
	if err != nil {
		return resolveFailure(storeName, err)
	}

	if err := client.DeleteItem(ctx, partitionKey, rowKey); err != nil {
		if errors.IsNotFound(err) {
			return failedOperation(errors.EntityDoesNotExist, notFoundMessage(tableName, partitionKey, rowKey), err)
		}
		return failedOperation(errors.OperationFailed, faultMessage("delete", tableName, err), err)
	}
	return CommandOperation{command: "delete"}
}

func (s *TableService) tableClient(storeName, tableName string) (datastore.TableClient, error) {
	if s == nil || s.factory == nil {
		return nil, fmt.Errorf("%w: no client factory configured", errors.ErrUnknownStore)
	}
	svc, err := s.factory.CreateClient(storeName)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %q resolved to no client", errors.ErrUnknownStore, storeName)
	}
	client := svc.TableClient(tableName)
	if client == nil {
		return nil, fmt.Errorf("store %q returned no client for table %q", storeName, tableName)
	}
	return client, nil
}

func resolveFailure(storeName string, err error) FailedOperation {
	return failedOperation(errors.OperationFailed, fmt.Sprintf("cannot resolve store %q", storeName), err)
}

func notFoundMessage(tableName, partitionKey, rowKey string) string {
	return fmt.Sprintf("entity (%q, %q) does not exist in table %q", partitionKey, rowKey, tableName)
}

func faultMessage(action, tableName string, err error) string {
	if status, ok := errors.StatusCode(err); ok {
		return fmt.Sprintf("%s on table %q failed with status %d", action, tableName, status)
	}
	return fmt.Sprintf("%s on table %q failed", action, tableName)
}

// call carries per-invocation logging state.
type call struct {
	ctx     context.Context
	logger  *slog.Logger
	started time.Time
}

func (s *TableService) begin(ctx context.Context, action, storeName, tableName string) *call {
	logger := slog.Default()
	if s != nil && s.logger != nil {
		logger = s.logger
	}
	return &call{
		ctx: ctx,
		logger: logger.With(
			slog.String("op_id", uuid.NewString()),
			slog.String("action", action),
			slog.String("store", storeName),
			slog.String("table", tableName),
		),
		started: time.Now(),
	}
}

// finish converts a recovered panic into OperationFailed and logs the result.
func (c *call) finish(op Operation, recovered any) Operation {
	if recovered != nil {
		op = failedOperation(errors.OperationFailed, "store client panicked", fmt.Errorf("panic: %v", recovered))
	}

	elapsed := slog.Duration("elapsed", time.Since(c.started))
	f, failed := op.(FailedOperation)
	if !failed {
		c.logger.LogAttrs(c.ctx, slog.LevelDebug, "table operation succeeded", elapsed)
		return op
	}

	level := slog.LevelWarn
	if f.Code() != errors.OperationFailed {
		level = slog.LevelDebug
	}
	c.logger.LogAttrs(c.ctx, level, "table operation failed",
		slog.String("code", f.Code().String()),
		slog.String("message", f.Message()),
		slog.Any("cause", f.Cause()),
		elapsed,
	)
	return op
}
