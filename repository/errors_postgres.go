package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// retryable SQLSTATE codes: unique_violation, lock_not_available,
// deadlock_detected, serialization_failure, query_canceled.
var conflictCodes = map[pq.ErrorCode]bool{
	"23505": true,
	"55P03": true,
	"40P01": true,
	"40001": true,
	"57014": true,
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && conflictCodes[pqErr.Code] {
		return fmt.Errorf("%w: %s (%s)", ErrConflict, pqErr.Message, pqErr.Code)
	}
	return err
}
