package user

import (
	"context"
	"crypto/md5"
	c "exzly/internal/core/domain/common"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users           []User
	PasswordUpdates int
	ReturnError     bool
	hasher          *FakePasswordHasher
	lock            sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10), hasher: NewFakePasswordHasher()}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input.Email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Users {
		if existing.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if existing.Username == input.Username {
			return u, ErrUsernameAlreadyExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	hash, _ := r.hasher.HashPassword(input.Password)
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
		CreatedAt:    input.CreatedAt,
		UpdatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id && !u.IsDeleted() {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByIDWithDeleted(ctx context.Context, id ID) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByIdentity(ctx context.Context, identity string) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.IsDeleted() {
			continue
		}
		if string(u.Email) == strings.ToLower(identity) || string(u.Username) == identity {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) UpdatePassword(ctx context.Context, id ID, password RawPassword) error {
	if r.ReturnError {
		return fmt.Errorf("could not update password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			hash, _ := r.hasher.HashPassword(password)
			r.Users[ix].PasswordHash = hash
			r.PasswordUpdates++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) MarkVerified(ctx context.Context, id ID, at time.Time) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not mark user %d as verified", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].VerifiedAt = c.NewOptional(at, true)
			r.Users[ix].UpdatedAt = at
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) UpdateProfile(ctx context.Context, input UpdateProfileInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not update profile of user %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == input.ID && !u.IsDeleted() {
			r.Users[ix].FullName = input.FullName
			r.Users[ix].UpdatedAt = input.At
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SoftDelete(ctx context.Context, id ID, at time.Time) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id && !u.IsDeleted() {
			r.Users[ix].DeletedAt = c.NewOptional(at, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) Restore(ctx context.Context, id ID, at time.Time) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not restore user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].DeletedAt = c.Optional[time.Time]{}
			r.Users[ix].UpdatedAt = at
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) Delete(ctx context.Context, id ID) error {
	if r.ReturnError {
		return fmt.Errorf("could not delete user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users = append(r.Users[:ix], r.Users[ix+1:]...)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

// FakeSessionTokenIssuer encodes the user ID into the token as "session-<id>".
type FakeSessionTokenIssuer struct {
	ReturnError bool
}

func NewFakeSessionTokenIssuer() *FakeSessionTokenIssuer {
	return &FakeSessionTokenIssuer{}
}

func (i *FakeSessionTokenIssuer) IssueSessionToken(id ID) (SessionToken, error) {
	if i.ReturnError {
		return "", fmt.Errorf("could not issue session token")
	}
	return SessionToken(fmt.Sprintf("session-%d", id)), nil
}

func (i *FakeSessionTokenIssuer) ParseSessionToken(token SessionToken) (ID, error) {
	if !strings.HasPrefix(string(token), "session-") {
		return 0, ErrInvalidSessionToken
	}
	raw := strings.TrimPrefix(string(token), "session-")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidSessionToken
	}
	return ID(id), nil
}
