/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore/datastore/mock"
	"github.com/suparena/tablestore/datastore/testmodels"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/query"
	"github.com/suparena/tablestore/storagemodels"
)

type ctxKey struct{}

func newService(t *testing.T, products ...testmodels.Product) (*query.TableService, *mock.Table) {
	t.Helper()

	svc := mock.NewService()
	table := svc.Table("products")
	for _, p := range products {
		require.NoError(t, table.Seed(p))
	}
	return query.NewTableService(mock.Factory{"test": svc}), table
}

func TestGetExistingEntity(t *testing.T) {
	ts, _ := newService(t, testmodels.NewProduct("TECH", "PROD1", 100))

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	succ, ok := op.(query.QuerySingleOperation[testmodels.Product])
	require.True(t, ok, "expected QuerySingleOperation, got %T", op)
	assert.Equal(t, "TECH", succ.Entity().Category)
	assert.Equal(t, "PROD1", succ.Entity().ID)
	assert.Equal(t, 100, succ.Entity().Price)
}

func TestEntityDoesNotExist(t *testing.T) {
	ts, _ := newService(t)

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	failed, ok := query.AsFailed(op)
	require.True(t, ok, "expected FailedOperation, got %T", op)
	assert.Equal(t, errors.EntityDoesNotExist, failed.Code())
	assert.True(t, errors.IsNotFound(failed.Cause()))
}

func TestEntityNotFoundReportedAsStatus(t *testing.T) {
	ts, table := newService(t)
	table.WithGetError(errors.NewStoreError(404, "ResourceNotFound", "entity not found", nil))

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.EntityDoesNotExist, failed.Code())
}

func TestNilItemIsNotFound(t *testing.T) {
	ts, table := newService(t)
	table.WithGetFunc(func(context.Context, string, string) (storagemodels.Item, error) {
		return nil, nil
	})

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.EntityDoesNotExist, failed.Code())
}

func TestGetEntityFaultIsOperationFailed(t *testing.T) {
	fault := errors.NewStoreError(503, "ServiceUnavailable", "throttled", nil)
	ts, table := newService(t, testmodels.NewProduct("TECH", "PROD1", 100))
	table.WithGetError(fault)

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
	assert.Same(t, fault, failed.Cause())
	assert.Contains(t, failed.Message(), "status 503")
}

func TestGetEntityDecodeFailure(t *testing.T) {
	ts, table := newService(t)
	require.NoError(t, table.PutItem(context.Background(), storagemodels.Item{
		"PartitionKey": &types.AttributeValueMemberS{Value: "TECH"},
		"RowKey":       &types.AttributeValueMemberS{Value: "PROD1"},
		"Price":        &types.AttributeValueMemberS{Value: "not a number"},
	}))

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
}

func TestFilterReturnsEntities(t *testing.T) {
	ts, _ := newService(t,
		testmodels.NewProduct("TECH", "PROD1", 100),
		testmodels.NewProduct("BOOK", "BOOK1", 20),
		testmodels.NewProduct("TECH", "PROD2", 150),
	)

	op := query.GetEntityList[testmodels.Product](context.Background(), ts, "test", "products",
		storagemodels.Where(storagemodels.Eq("PartitionKey", "TECH")))

	succ, ok := op.(query.QueryListOperation[testmodels.Product])
	require.True(t, ok, "expected QueryListOperation, got %T", op)
	require.Equal(t, 2, succ.Len())
	assert.Equal(t, "PROD1", succ.Entities()[0].ID)
	assert.Equal(t, "PROD2", succ.Entities()[1].ID)
}

func TestFilterDoesNotReturnEntities(t *testing.T) {
	ts, _ := newService(t, testmodels.NewProduct("BOOK", "BOOK1", 20))

	op := query.GetEntityList[testmodels.Product](context.Background(), ts, "test", "products",
		storagemodels.Where(storagemodels.Eq("PartitionKey", "TECH")))

	failed, ok := query.AsFailed(op)
	require.True(t, ok, "expected FailedOperation, got %T", op)
	assert.Equal(t, errors.EntityListDoesNotExist, failed.Code())
	assert.Nil(t, failed.Cause())
}

func TestFilterDrainsEveryPageInOrder(t *testing.T) {
	var products []testmodels.Product
	for _, id := range []string{"P1", "P2", "P3", "P4", "P5"} {
		products = append(products, testmodels.NewProduct("TECH", id, 10))
	}
	ts, table := newService(t, products...)
	table.WithPageSize(2)

	op := query.GetEntityList[testmodels.Product](context.Background(), ts, "test", "products",
		storagemodels.Filter{}.InPartition("TECH"))

	entities, ok := query.AsList[testmodels.Product](op)
	require.True(t, ok, "expected QueryListOperation, got %T", op)
	require.Len(t, entities, 5)
	for i, p := range products {
		assert.Equal(t, p.ID, entities[i].ID)
	}
}

func TestFilterPageFaultIsOperationFailed(t *testing.T) {
	ts, table := newService(t,
		testmodels.NewProduct("TECH", "PROD1", 100),
		testmodels.NewProduct("TECH", "PROD2", 150),
		testmodels.NewProduct("TECH", "PROD3", 200),
	)
	fault := errors.NewStoreError(500, "InternalServerError", "boom", nil)
	table.WithPageSize(1).WithPageError(2, fault)

	op := query.GetEntityList[testmodels.Product](context.Background(), ts, "test", "products",
		storagemodels.Where(storagemodels.Ge("Price", 100)))

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
	assert.Same(t, fault, failed.Cause())
}

func TestFilterNotFoundFaultIsStillOperationFailed(t *testing.T) {
	ts, table := newService(t, testmodels.NewProduct("TECH", "PROD1", 100))
	table.WithQueryError(errors.NewStoreError(404, "ResourceNotFoundException", "table missing", nil))

	op := query.GetEntityList[testmodels.Product](context.Background(), ts, "test", "products", storagemodels.Filter{})

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
}

func TestContextIsForwardedUnchanged(t *testing.T) {
	ts, table := newService(t, testmodels.NewProduct("TECH", "PROD1", 100))
	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")

	query.GetEntity[testmodels.Product](ctx, ts, "test", "products", "TECH", "PROD1")
	assert.True(t, table.LastContext() == ctx, "GetItem received a different context")

	query.GetEntityList[testmodels.Product](ctx, ts, "test", "products", storagemodels.Filter{})
	assert.True(t, table.LastContext() == ctx, "NextPage received a different context")
}

func TestCanceledContextSurfacesAsOperationFailed(t *testing.T) {
	ts, _ := newService(t, testmodels.NewProduct("TECH", "PROD1", 100))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ops := []query.Operation{
		query.GetEntity[testmodels.Product](ctx, ts, "test", "products", "TECH", "PROD1"),
		query.GetEntityList[testmodels.Product](ctx, ts, "test", "products", storagemodels.Filter{}),
	}

	for _, op := range ops {
		failed, ok := query.AsFailed(op)
		require.True(t, ok)
		assert.Equal(t, errors.OperationFailed, failed.Code())
		assert.True(t, stderrors.Is(failed, context.Canceled))
	}
}

func TestCollaboratorPanicIsContained(t *testing.T) {
	ts, table := newService(t)
	table.WithGetFunc(func(context.Context, string, string) (storagemodels.Item, error) {
		panic("connection reset")
	})

	var op query.Operation
	assert.NotPanics(t, func() {
		op = query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")
	})

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
	assert.Contains(t, failed.Cause().Error(), "connection reset")
}

func TestUnknownStoreIsOperationFailed(t *testing.T) {
	ts, _ := newService(t)

	op := query.GetEntity[testmodels.Product](context.Background(), ts, "prod", "products", "TECH", "PROD1")

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
	assert.True(t, stderrors.Is(failed, errors.ErrUnknownStore))
}

func TestRepeatedCallsAreIdempotent(t *testing.T) {
	ts, _ := newService(t,
		testmodels.NewProduct("TECH", "PROD1", 100),
		testmodels.NewProduct("TECH", "PROD2", 150),
	)
	ctx := context.Background()
	filter := storagemodels.Where(storagemodels.Eq("PartitionKey", "TECH"))

	first := query.GetEntity[testmodels.Product](ctx, ts, "test", "products", "TECH", "PROD1")
	second := query.GetEntity[testmodels.Product](ctx, ts, "test", "products", "TECH", "PROD1")
	assert.Equal(t, first, second)

	firstList := query.GetEntityList[testmodels.Product](ctx, ts, "test", "products", filter)
	secondList := query.GetEntityList[testmodels.Product](ctx, ts, "test", "products", filter)
	assert.Equal(t, firstList, secondList)
}

func TestUpsertAndDelete(t *testing.T) {
	ts, table := newService(t)
	ctx := context.Background()

	op := query.UpsertEntity(ctx, ts, "test", "products", testmodels.NewProduct("TECH", "PROD1", 100))
	cmd, ok := op.(query.CommandOperation)
	require.True(t, ok, "expected CommandOperation, got %T", op)
	assert.Equal(t, "upsert", cmd.Command())
	assert.Equal(t, 1, table.Count())

	op = query.DeleteEntity(ctx, ts, "test", "products", "TECH", "PROD1")
	cmd, ok = op.(query.CommandOperation)
	require.True(t, ok, "expected CommandOperation, got %T", op)
	assert.Equal(t, "delete", cmd.Command())
	assert.Equal(t, 0, table.Count())

	op = query.DeleteEntity(ctx, ts, "test", "products", "TECH", "PROD1")
	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.EntityDoesNotExist, failed.Code())
}

func TestUpsertFaultIsOperationFailed(t *testing.T) {
	ts, table := newService(t)
	table.WithPutError(errors.NewStoreError(400, "ValidationException", "bad item", nil))

	op := query.UpsertEntity(context.Background(), ts, "test", "products", testmodels.NewProduct("TECH", "PROD1", 100))

	failed, ok := query.AsFailed(op)
	require.True(t, ok)
	assert.Equal(t, errors.OperationFailed, failed.Code())
}

func TestConcurrentCallsDoNotInteract(t *testing.T) {
	ts, _ := newService(t,
		testmodels.NewProduct("TECH", "PROD1", 100),
		testmodels.NewProduct("TECH", "PROD2", 150),
	)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "PROD1"
			if i%2 == 1 {
				id = "PROD2"
			}
			op := query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", id)
			p, ok := query.AsSingle[testmodels.Product](op)
			assert.True(t, ok)
			assert.Equal(t, id, p.ID)
		}(i)
	}
	wg.Wait()
}

func TestFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := mock.NewService()
	svc.Table("products").WithGetError(errors.NewStoreError(500, "InternalServerError", "boom", nil))
	ts := query.NewTableService(mock.Factory{"test": svc}, query.WithLogger(logger))

	query.GetEntity[testmodels.Product](context.Background(), ts, "test", "products", "TECH", "PROD1")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=OperationFailed")
	assert.Contains(t, out, "store=test")
	assert.Contains(t, out, "op_id=")
}
