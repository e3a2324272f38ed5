/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/query"
)

type entity = map[string]any

// result is the printed form of an operation.
type result struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Command  string   `json:"command,omitempty" yaml:"command,omitempty"`
	Count    int      `json:"count,omitempty" yaml:"count,omitempty"`
	Entity   entity   `json:"entity,omitempty" yaml:"entity,omitempty"`
	Entities []entity `json:"entities,omitempty" yaml:"entities,omitempty"`
	Code     string   `json:"code,omitempty" yaml:"code,omitempty"`
	CodeID   int      `json:"codeId,omitempty" yaml:"codeId,omitempty"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
	Cause    string   `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// operationError is returned for failed operations after they are printed.
type operationError struct {
	code errors.Code
	err  error
}

func (e *operationError) Error() string { return e.err.Error() }
func (e *operationError) Unwrap() error { return e.err }

func render(w io.Writer, format string, op query.Operation) error {
	var (
		out    result
		failed *operationError
	)
	query.Match(op, query.Handlers[entity]{
		Single: func(e entity) {
			out = result{Kind: "single", Entity: e}
		},
		List: func(es []entity) {
			out = result{Kind: "collection", Count: len(es), Entities: es}
		},
		Command: func(c query.CommandOperation) {
			out = result{Kind: "command", Command: c.Command()}
		},
		Failed: func(f query.FailedOperation) {
			out = result{Kind: "failed", Code: f.Code().String(), CodeID: int(f.Code()), Message: f.Message()}
			if f.Cause() != nil {
				out.Cause = f.Cause().Error()
			}
			failed = &operationError{code: f.Code(), err: f}
		},
	})

	if err := encode(w, format, out); err != nil {
		return err
	}
	if failed != nil {
		return failed
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}
}

// exitCode distinguishes a missing entity or list from other failures.
func exitCode(err error) int {
	var opErr *operationError
	if stderrors.As(err, &opErr) {
		switch opErr.code {
		case errors.EntityDoesNotExist, errors.EntityListDoesNotExist:
			return 3
		default:
			return 2
		}
	}
	return 1
}
