package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "truckrecruit/internal/errors"
)

// MySQL error numbers for deadlock and lock wait timeout.
const (
	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205
)

// IsTransient reports whether err is a connectivity or contention failure after which the
// whole transaction can be replayed from scratch.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperrors.ErrTransientStore) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization_failure, deadlock_detected
			return true
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08": // connection exceptions
			return true
		}
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify wraps transient failures with ErrTransientStore and leaves everything else alone.
func classify(err error) error {
	if err == nil || errors.Is(err, apperrors.ErrTransientStore) || !IsTransient(err) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrTransientStore, err)
}
