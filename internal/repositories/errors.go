package repositories

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds a lookup can report. Callers match them with errors.Is.
var (
	ErrQuery       = errors.New("query failed")
	ErrConnection  = errors.New("database connection error")
	ErrTimeout     = errors.New("operation timeout")
	ErrUnsupported = errors.New("unsupported operation")
)

// RepositoryError records which operation on which entity failed
type RepositoryError struct {
	Op      string
	Entity  string
	ID      string
	Err     error
	Message string
}

func (e *RepositoryError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ID != "":
		return fmt.Sprintf("%s %s failed for %s: %v", e.Entity, e.Op, e.ID, e.Err)
	default:
		return fmt.Sprintf("%s %s failed: %v", e.Entity, e.Op, e.Err)
	}
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError wraps err with the operation, entity and optional ID
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Entity: entity, ID: id, Err: err}
}

// QueryError wraps a failed query as ErrQuery, or ErrTimeout when the context deadline passed
func QueryError(op, entity, id string, err error) *RepositoryError {
	kind := ErrQuery
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTimeout
	}

	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %v", kind, err),
		Message: fmt.Sprintf("%s %s failed for %s: %v", entity, op, id, err),
	}
}

// ConnectionError wraps a failure to open the backing store as ErrConnection
func ConnectionError(err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  "database",
		Err:     fmt.Errorf("%w: %v", ErrConnection, err),
		Message: fmt.Sprintf("database connection failed: %v", err),
	}
}

// IsTimeout reports whether err is a lookup that ran out of time
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsConnection reports whether err is a failure to reach the backing store
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}
