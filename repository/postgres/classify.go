package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dealdesk/backend/domain"
)

// classify maps store failures onto the domain taxonomy at the repository
// boundary. Driver codes and SQLSTATE details stay wrapped inside the
// returned error for logging; only the classified message is user-visible.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDealNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.WrapError(domain.ErrCodeUnavailable, "store request abandoned", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch sqlStateClass(pgErr.Code) {
		case "23": // integrity constraint violation
			return domain.WrapError(domain.ErrCodeConflict, "deal violates a store constraint", err)
		case "22": // data exception
			return domain.WrapError(domain.ErrCodeValidation, "value rejected by the store", err)
		case "08", "53", "57": // connection, resources, operator intervention
			return domain.WrapError(domain.ErrCodeUnavailable, "store unavailable", err)
		}
		return domain.WrapError(domain.ErrCodeInternal, "store operation failed", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrCodeUnavailable, "store unreachable", err)
	}

	return domain.WrapError(domain.ErrCodeInternal, "store operation failed", err)
}

func sqlStateClass(code string) string {
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}
