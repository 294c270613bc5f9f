package apperr

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ClassifyStorage maps a raw storage error onto the taxonomy.
// Returns: (isTransient, errorType).
func ClassifyStorage(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	if IsAuthorization(err) {
		return false, "authorization_denied"
	}
	if IsNotFound(err) || errors.Is(err, pgx.ErrNoRows) {
		return false, "not_found"
	}

	errStr := err.Error()

	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return false, "duplicate_key"
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return true, "db_connection_error"
	}

	// context.DeadlineExceeded also satisfies net.Error, so check it first.
	if errors.Is(err, context.DeadlineExceeded) {
		return true, "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return false, "context_canceled"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true, "network_timeout"
		}
		return true, "network_error"
	}

	return false, "unknown_error"
}

// IsTransient reports whether the failure is a network/availability problem
// the caller may re-invoke the operation for. The engine itself never retries.
func IsTransient(err error) bool {
	transient, _ := ClassifyStorage(err)
	return transient
}
