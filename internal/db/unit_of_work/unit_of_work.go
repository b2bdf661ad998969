package uow

import (
	"context"
	e "exzly/internal/core/domain/errors"
	uow "exzly/internal/core/domain/unit_of_work"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	dbuser "exzly/internal/db/user"
	dbverification "exzly/internal/db/verification"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxUnitOfWorkContext struct {
	tx     pgx.Tx
	hasher user.PasswordHasher
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Users() user.UserRepository {
	return dbuser.NewPgxRepository(c.tx, c.hasher)
}

func (c *pgxUnitOfWorkContext) Verifications() verification.Repository {
	return dbverification.NewPgxRepository(c.tx)
}

type PgxUnitOfWork struct {
	db     *pgxpool.Pool
	hasher user.PasswordHasher
}

func NewPgxUnitOfWork(db *pgxpool.Pool, hasher user.PasswordHasher) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if hasher == nil {
		panic(e.NewNilArgumentError("hasher"))
	}
	return &PgxUnitOfWork{db: db, hasher: hasher}
}

// Begin starts a read committed transaction.
func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return &pgxUnitOfWorkContext{tx: tx, hasher: u.hasher}, nil
}
