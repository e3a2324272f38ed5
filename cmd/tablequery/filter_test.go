/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tablestore/storagemodels"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		expr string
		want storagemodels.Condition
	}{
		{"Price>=100", storagemodels.Ge("Price", int64(100))},
		{"Price <= 2.5", storagemodels.Le("Price", 2.5)},
		{"Price>1", storagemodels.Gt("Price", int64(1))},
		{"Price<1", storagemodels.Lt("Price", int64(1))},
		{"Status=shipped", storagemodels.Eq("Status", "shipped")},
		{"Status<>shipped", storagemodels.Ne("Status", "shipped")},
		{"Status!=shipped", storagemodels.Ne("Status", "shipped")},
		{"RowKey^=PROD", storagemodels.BeginsWith("RowKey", "PROD")},
		{`Code="100"`, storagemodels.Eq("Code", "100")},
		{"Active=true", storagemodels.Eq("Active", true)},
		{"Email=a=b", storagemodels.Eq("Email", "a=b")},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := parseCondition(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConditionErrors(t *testing.T) {
	for _, expr := range []string{"Price", "=100", ""} {
		_, err := parseCondition(expr)
		assert.Error(t, err, "expression %q", expr)
	}

	_, err := parseConditions([]string{"Price>1", "bad"})
	assert.ErrorContains(t, err, `"bad"`)
}
