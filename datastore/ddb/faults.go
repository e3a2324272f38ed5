/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	stderrors "errors"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/tablestore/errors"
)

// translate converts an SDK error into a *errors.StoreError carrying the HTTP
// status, the service error code and message. The original error stays in
// the chain so callers can still match context cancellation or SDK types.
func translate(err error) error {
	if err == nil {
		return nil
	}

	se := &errors.StoreError{Message: err.Error(), Err: err}

	var respErr *awshttp.ResponseError
	if stderrors.As(err, &respErr) {
		se.StatusCode = respErr.HTTPStatusCode()
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		se.ErrorCode = apiErr.ErrorCode()
		if msg := apiErr.ErrorMessage(); msg != "" {
			se.Message = msg
		}
	}

	return se
}

func notFound(table, partitionKey, rowKey string, cause error) error {
	if cause == nil {
		cause = errors.NewNotFoundError(table, partitionKey, rowKey)
	}
	return &errors.StoreError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "ResourceNotFound",
		Message:    "entity not found",
		Err:        cause,
	}
}

func isConditionalCheckFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return stderrors.As(err, &cfe)
}
