package uow

import (
	"context"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
)

// Context is a single database transaction. Rollback after Commit is a no-op.
type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	Verifications() verification.Repository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
