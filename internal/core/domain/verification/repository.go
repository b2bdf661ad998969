package verification

import (
	"context"
	c "exzly/internal/core/domain/common"
	"exzly/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	UserID    user.ID
	Purpose   Purpose
	Code      Code
	CodeHash  CodeHash
	ExpiresAt time.Time
	CreatedAt time.Time
}

type ConsumeCodeInput struct {
	ID        ID
	Token     c.Optional[Token]
	ExpiresAt time.Time
	At        time.Time
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (Record, error)
	GetByCode(ctx context.Context, code Code) (Record, error)
	GetByCodeHash(ctx context.Context, hash CodeHash) (Record, error)
	GetByToken(ctx context.Context, token Token) (Record, error)

	// ConsumeCode marks the code as used only if neither flag is set yet,
	// otherwise ErrAlreadyUsed is returned.
	ConsumeCode(ctx context.Context, input ConsumeCodeInput) (Record, error)
	// ConsumeToken marks the token as used only if it is not used yet.
	// The expiry is left untouched.
	ConsumeToken(ctx context.Context, id ID, at time.Time) (Record, error)
}
