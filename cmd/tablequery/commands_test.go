/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/datastore/mock"
	"github.com/suparena/tablestore/datastore/testmodels"
	"github.com/suparena/tablestore/errors"
)

func runCLI(t *testing.T, args ...string) (result, string, error) {
	t.Helper()

	svc := mock.NewService()
	require.NoError(t, svc.Table("products").Seed(
		testmodels.NewProduct("TECH", "PROD1", 100),
		testmodels.NewProduct("TECH", "PROD2", 150),
		testmodels.NewProduct("HOME", "PROD3", 40),
	))
	factory := func(*config.Config, *slog.Logger) datastore.ClientFactory {
		return mock.Factory{"test": svc}
	}

	path := filepath.Join(t.TempDir(), "tablestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stores:\n  test:\n    region: us-east-1\n"), 0o600))

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr, factory)
	cmd.SetArgs(append([]string{"--config", path, "--store", "test", "--table", "products"}, args...))
	err := cmd.ExecuteContext(context.Background())

	var out result
	if stdout.Len() > 0 {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), stdout.String())
	}
	return out, stderr.String(), err
}

func TestGetCommand(t *testing.T) {
	out, _, err := runCLI(t, "get", "TECH", "PROD1")
	require.NoError(t, err)
	assert.Equal(t, "single", out.Kind)
	assert.Equal(t, "PROD1", out.Entity["RowKey"])
	assert.Equal(t, float64(100), out.Entity["Price"])
}

func TestGetCommandMissing(t *testing.T) {
	out, _, err := runCLI(t, "get", "TECH", "PROD9")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
	assert.Equal(t, "failed", out.Kind)
	assert.Equal(t, "EntityDoesNotExist", out.Code)
	assert.Equal(t, int(errors.EntityDoesNotExist), out.CodeID)
}

func TestListCommand(t *testing.T) {
	out, _, err := runCLI(t, "list", "--partition", "TECH", "--where", "Price>=120")
	require.NoError(t, err)
	assert.Equal(t, "collection", out.Kind)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "PROD2", out.Entities[0]["RowKey"])

	out, _, err = runCLI(t, "list", "--page-size", "1")
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
}

func TestListCommandEmpty(t *testing.T) {
	out, _, err := runCLI(t, "list", "--partition", "GARDEN")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
	assert.Equal(t, "EntityListDoesNotExist", out.Code)
}

func TestListCommandBadCondition(t *testing.T) {
	_, _, err := runCLI(t, "list", "--where", "Price")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestUnknownStore(t *testing.T) {
	out, stderr, err := runCLI(t, "get", "TECH", "PROD1", "--store", "prod")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Equal(t, "OperationFailed", out.Code)
	assert.Contains(t, stderr, "level=WARN")
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := runCLI(t, "get", "TECH", "PROD1", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "table operation succeeded")
}

func TestMissingTable(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCommand(&stdout, &stdout, dynamoFactory)
	cmd.SetArgs([]string{"get", "a", "b"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "--table is required")
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCommand(&stdout, &stdout, dynamoFactory)
	cmd.SetArgs([]string{"version", "--output", "yaml"})
	require.NoError(t, cmd.Execute())

	var info tablestore.VersionInfo
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &info))
	assert.Equal(t, tablestore.Version, info.Version)
}
