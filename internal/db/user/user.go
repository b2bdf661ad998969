package user

import (
	"context"
	"database/sql"
	"errors"
	c "exzly/internal/core/domain/common"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/db"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const (
	EMAIL_CONSTRAINT_NAME    = "user_email_idx"
	USERNAME_CONSTRAINT_NAME = "user_username_idx"
)

const userColumns = `id, email, username, full_name, password_hash, is_admin, verified_at, created_at, updated_at, deleted_at`

type PgxUserRepository struct {
	db     db.DBTX
	hasher user.PasswordHasher
}

func NewPgxRepository(dbtx db.DBTX, hasher user.PasswordHasher) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if hasher == nil {
		panic(e.NewNilArgumentError("hasher"))
	}
	return &PgxUserRepository{db: dbtx, hasher: hasher}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	passwordHash, err := r.hasher.HashPassword(input.Password)
	if err != nil {
		return u, err
	}

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, username, full_name, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+userColumns,
		string(input.Email),
		string(input.Username),
		input.FullName,
		string(passwordHash),
		input.IsAdmin,
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == db.PG_UNIQUE_CONSTRAINT_ERR_CODE {
		switch pgErr.ConstraintName {
		case EMAIL_CONSTRAINT_NAME:
			return u, user.ErrEmailAlreadyExists
		case USERNAME_CONSTRAINT_NAME:
			return u, user.ErrUsernameAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1 AND deleted_at IS NULL`, int64(id))
	return r.get(row)
}

func (r *PgxUserRepository) GetByIDWithDeleted(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return r.get(row)
}

func (r *PgxUserRepository) GetByIdentity(ctx context.Context, identity string) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE (email = $1 OR username = $2) AND deleted_at IS NULL
		ORDER BY id LIMIT 1`,
		strings.ToLower(strings.TrimSpace(identity)),
		strings.TrimSpace(identity),
	)
	return r.get(row)
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, id user.ID, password user.RawPassword) error {
	passwordHash, err := r.hasher.HashPassword(password)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		int64(id),
		string(passwordHash),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) MarkVerified(ctx context.Context, id user.ID, at time.Time) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user" SET verified_at = COALESCE(verified_at, $2), updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+userColumns,
		int64(id),
		at,
	)
	return r.get(row)
}

func (r *PgxUserRepository) UpdateProfile(ctx context.Context, input user.UpdateProfileInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user" SET full_name = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+userColumns,
		int64(input.ID),
		input.FullName,
		input.At,
	)
	return r.get(row)
}

func (r *PgxUserRepository) SoftDelete(ctx context.Context, id user.ID, at time.Time) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		int64(id),
		at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) Restore(ctx context.Context, id user.ID, at time.Time) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user" SET deleted_at = NULL, updated_at = $2
		WHERE id = $1
		RETURNING `+userColumns,
		int64(id),
		at,
	)
	return r.get(row)
}

func (r *PgxUserRepository) Delete(ctx context.Context, id user.ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) get(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        string
		username     string
		passwordHash string
		verifiedAt   sql.NullTime
		deletedAt    sql.NullTime
	)
	err = row.Scan(
		&id,
		&email,
		&username,
		&u.FullName,
		&passwordHash,
		&u.IsAdmin,
		&verifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = c.Email(email)
	u.Username = user.Username(username)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.VerifiedAt = c.NewOptional(verifiedAt.Time.UTC(), verifiedAt.Valid)
	u.DeletedAt = c.NewOptional(deletedAt.Time.UTC(), deletedAt.Valid)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
