// Package postgres implements the domain repositories with gorm on
// PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"strings"

	domainRepo "ayursetu-backend/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	uniqueViolation      = "23505"
	activeSlotConstraint = "uq_appointments_active_slot"
)

type txKey struct{}

// Transactor runs a unit of work in one database transaction. Repositories
// pick the transaction up from the context.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// lockingConn is conn with SELECT ... FOR UPDATE when ctx carries a
// transaction, so concurrent read-modify-write of one row runs in turn.
func lockingConn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return db.WithContext(ctx)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation on a constraint whose name contains constraintName.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == uniqueViolation && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// translateError maps unique violations to the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKeyError(err, activeSlotConstraint) {
		return domainRepo.ErrSlotTaken
	}
	if isDuplicateKeyError(err, "") {
		return domainRepo.ErrDuplicateKey
	}
	return err
}
