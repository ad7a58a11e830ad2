package repository

import (
	"context"
	"errors"
	"fmt"

	"bus-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrCommitFailed marks a transaction that failed at commit time, after
// every statement inside it succeeded. Callers that acquired seats must
// compensate when they see it.
var ErrCommitFailed = errors.New("transaction commit failed")

// UnitOfWork runs a function against transaction-scoped repositories.
// Everything the function writes commits or rolls back as one.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repository) error) error
}

type pgxUnitOfWork struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUnitOfWork(db database.PgxIface, log *zap.Logger) UnitOfWork {
	return &pgxUnitOfWork{
		db:  db,
		log: log.With(zap.String("repository", "unit_of_work")),
	}
}

func (u *pgxUnitOfWork) Do(ctx context.Context, fn func(repos *Repository) error) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		u.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Rollback after a successful commit returns pgx.ErrTxClosed,
	// which is the normal path here.
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	if err := fn(u.reposFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		u.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	return nil
}

func (u *pgxUnitOfWork) reposFor(tx pgx.Tx) *Repository {
	return newWithQuerier(tx, u.log)
}
