//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore/ddb"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/query"
	"github.com/suparena/tablestore/storagemodels"
)

// IntegrationOrder is stored with the user as partition and the order id as row.
type IntegrationOrder struct {
	UserID    string    `dynamodbav:"PartitionKey"`
	OrderID   string    `dynamodbav:"RowKey"`
	Total     float64   `dynamodbav:"Total"`
	Status    string    `dynamodbav:"Status"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}

func setupIntegration(t *testing.T) *tablestore.Table[IntegrationOrder] {
	t.Helper()
	cfg, err := config.FromEnv()
	if err != nil {
		t.Skipf("DynamoDB integration environment not configured: %v", err)
	}
	store, _ := cfg.Store(config.DefaultStoreName)
	if len(store.Tables) == 0 {
		t.Skip("AWS_DDB_TABLE not set")
	}
	var table string
	for name := range store.Tables {
		table = name
	}

	reg := tablestore.NewRegistry(tablestore.WithFallback(ddb.NewFactory(cfg)))
	require.NoError(t, tablestore.Bind[IntegrationOrder](reg, config.DefaultStoreName, table))
	orders, err := tablestore.Open[IntegrationOrder](reg)
	require.NoError(t, err)
	return orders
}

func TestIntegrationOrders(t *testing.T) {
	orders := setupIntegration(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user := fmt.Sprintf("USER#%d", time.Now().UnixNano())
	statuses := []string{"pending", "shipped", "shipped"}
	for i, status := range statuses {
		order := IntegrationOrder{
			UserID:    user,
			OrderID:   fmt.Sprintf("ORDER#%03d", i),
			Total:     float64(10 * (i + 1)),
			Status:    status,
			CreatedAt: time.Now().UTC(),
		}
		_, failed := query.AsFailed(orders.Upsert(ctx, order))
		require.False(t, failed)
	}
	t.Cleanup(func() {
		for i := range statuses {
			orders.Delete(context.Background(), user, fmt.Sprintf("ORDER#%03d", i))
		}
	})

	t.Run("Get", func(t *testing.T) {
		order, ok := query.AsSingle[IntegrationOrder](orders.Get(ctx, user, "ORDER#001"))
		require.True(t, ok)
		assert.Equal(t, "shipped", order.Status)
	})

	t.Run("ListShipped", func(t *testing.T) {
		filter := storagemodels.Where(storagemodels.Eq("Status", "shipped")).InPartition(user)
		list, ok := query.AsList[IntegrationOrder](orders.List(ctx, filter))
		require.True(t, ok)
		assert.Len(t, list, 2)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		filter := storagemodels.Where(storagemodels.Eq("Status", "cancelled")).InPartition(user)
		failed, ok := query.AsFailed(orders.List(ctx, filter))
		require.True(t, ok)
		assert.Equal(t, errors.EntityListDoesNotExist, failed.Code())
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		failed, ok := query.AsFailed(orders.Delete(ctx, user, "ORDER#999"))
		require.True(t, ok)
		assert.Equal(t, errors.EntityDoesNotExist, failed.Code())
	})
}
