package user

import (
	"context"
	c "exzly/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Email     c.Email
	Username  Username
	FullName  string
	Password  RawPassword
	IsAdmin   bool
	CreatedAt time.Time
}

type UpdateProfileInput struct {
	ID       ID
	FullName string
	At       time.Time
}

// UserRepository hashes raw passwords itself, callers never pass hashes in.
// Soft deleted users are invisible to every method except GetByIDWithDeleted,
// Restore and Delete.
type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByIDWithDeleted(ctx context.Context, id ID) (User, error)
	GetByIdentity(ctx context.Context, identity string) (User, error)
	UpdatePassword(ctx context.Context, id ID, password RawPassword) error
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (User, error)
	MarkVerified(ctx context.Context, id ID, at time.Time) (User, error)
	SoftDelete(ctx context.Context, id ID, at time.Time) error
	Restore(ctx context.Context, id ID, at time.Time) (User, error)
	// Delete removes the user row together with its verification records.
	Delete(ctx context.Context, id ID) error
}
