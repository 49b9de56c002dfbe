package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryMissing = errors.New("referenced category does not exist")
	ErrCategoryExists  = errors.New("category name already exists for this type")
	ErrCouponCodeInUse = errors.New("coupon code already in use")
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
