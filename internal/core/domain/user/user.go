package user

import (
	"context"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"fmt"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type Username string

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type User struct {
	ID           ID
	Email        c.Email
	Username     Username
	FullName     string
	PasswordHash PasswordHash
	IsAdmin      bool
	VerifiedAt   c.Optional[time.Time]
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    c.Optional[time.Time]
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.Username == "" {
		return e.NewInvalidStateError(fmt.Sprintf("username is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	return nil
}

func (u *User) IsVerified() bool {
	return u.VerifiedAt.IsPresent
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt.IsPresent
}

// CanManage reports whether u may change the profile of the target user.
func (u *User) CanManage(target User) bool {
	return u.IsAdmin || u.ID == target.ID
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(id ID) (SessionToken, error)
}

type SessionTokenValidator interface {
	ParseSessionToken(token SessionToken) (ID, error)
}

type PasswordUpdater interface {
	UpdatePassword(ctx context.Context, id ID, password RawPassword) error
}
