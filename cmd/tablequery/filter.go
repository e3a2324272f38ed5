/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suparena/tablestore/storagemodels"
)

// Longer operators come first so that ">=" is not read as ">".
var conditionOperators = []struct {
	token string
	build func(attr string, value any) storagemodels.Condition
}{
	{"^=", func(attr string, value any) storagemodels.Condition { return storagemodels.BeginsWith(attr, fmt.Sprint(value)) }},
	{"<>", storagemodels.Ne},
	{"!=", storagemodels.Ne},
	{">=", storagemodels.Ge},
	{"<=", storagemodels.Le},
	{"=", storagemodels.Eq},
	{">", storagemodels.Gt},
	{"<", storagemodels.Lt},
}

// parseConditions turns expressions like "Price>=100" into conditions.
func parseConditions(exprs []string) ([]storagemodels.Condition, error) {
	conditions := make([]storagemodels.Condition, 0, len(exprs))
	for _, expr := range exprs {
		c, err := parseCondition(expr)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

func parseCondition(expr string) (storagemodels.Condition, error) {
	best, bestAt := -1, len(expr)
	for i, op := range conditionOperators {
		at := strings.Index(expr, op.token)
		if at < 0 {
			continue
		}
		if at < bestAt || (at == bestAt && len(op.token) > len(conditionOperators[best].token)) {
			best, bestAt = i, at
		}
	}
	if best < 0 {
		return storagemodels.Condition{}, fmt.Errorf("invalid condition %q: no operator", expr)
	}

	op := conditionOperators[best]
	attr := strings.TrimSpace(expr[:bestAt])
	raw := strings.TrimSpace(expr[bestAt+len(op.token):])
	if attr == "" {
		return storagemodels.Condition{}, fmt.Errorf("invalid condition %q: missing attribute", expr)
	}
	return op.build(attr, parseValue(raw)), nil
}

// parseValue reads numbers and booleans; anything else, or a quoted value,
// is a string.
func parseValue(raw string) any {
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return unquoted
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
