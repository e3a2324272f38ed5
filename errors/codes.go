/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import "fmt"

// Code classifies a failed table operation.
// Values are part of the public contract: callers branch on them, so existing
// members must never be renumbered. New members get new numbers.
type Code int

const (
	// EntityDoesNotExist is reported when a point lookup addressed an entity that is not stored.
	EntityDoesNotExist Code = 1001

	// EntityListDoesNotExist is reported when a filtered query matched no entities.
	EntityListDoesNotExist Code = 1002

	// OperationFailed is reported for every other fault raised by the store client.
	OperationFailed Code = 1003
)

func (c Code) String() string {
	switch c {
	case EntityDoesNotExist:
		return "EntityDoesNotExist"
	case EntityListDoesNotExist:
		return "EntityListDoesNotExist"
	case OperationFailed:
		return "OperationFailed"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}
