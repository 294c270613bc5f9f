package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Operation names the storage operation that failed.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpWrite  Operation = "write"
)

// ValidationError reports malformed or missing fields. It is local: it never
// reaches storage and is returned synchronously with per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// AuthorizationError is a storage-layer permission denial. It is never
// retried automatically; it carries the document path and the attempted
// payload so a permissions administrator can diagnose it.
type AuthorizationError struct {
	Path          string
	Operation     Operation
	AttemptedData json.RawMessage
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("permission denied: %s %s", e.Operation, e.Path)
}

// NotFoundError marks a referenced project or report as absent. Terminal for
// the request; the caller presents a not-found state instead of retrying.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
