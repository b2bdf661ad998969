package verification

import (
	"context"
	"database/sql"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"exzly/internal/db"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
)

const recordColumns = `id, user_id, purpose, code, code_hash, token, code_is_used, token_is_used, expires_at, created_at, updated_at`

type PgxRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxRepository{db: dbtx}
}

func (r *PgxRepository) Create(ctx context.Context, input verification.CreateInput) (verification.Record, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO auth_verify (user_id, purpose, code, code_hash, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+recordColumns,
		int64(input.UserID),
		string(input.Purpose),
		string(input.Code),
		string(input.CodeHash),
		input.ExpiresAt,
		input.CreatedAt,
	)
	return r.get(row)
}

func (r *PgxRepository) GetByCode(ctx context.Context, code verification.Code) (verification.Record, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+recordColumns+` FROM auth_verify WHERE code = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		string(code),
	)
	return r.get(row)
}

func (r *PgxRepository) GetByCodeHash(ctx context.Context, hash verification.CodeHash) (verification.Record, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+recordColumns+` FROM auth_verify WHERE code_hash = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		string(hash),
	)
	return r.get(row)
}

func (r *PgxRepository) GetByToken(ctx context.Context, token verification.Token) (verification.Record, error) {
	if token == "" {
		return verification.Record{}, verification.ErrRecordDoesNotExist
	}
	row := r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM auth_verify WHERE token = $1`, string(token))
	return r.get(row)
}

func (r *PgxRepository) ConsumeCode(ctx context.Context, input verification.ConsumeCodeInput) (verification.Record, error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE auth_verify
		SET code_is_used = TRUE, token = COALESCE($2, token), expires_at = $3, updated_at = $4
		WHERE id = $1 AND NOT code_is_used AND NOT token_is_used
		RETURNING `+recordColumns,
		int64(input.ID),
		sql.NullString{String: string(input.Token.Value), Valid: input.Token.IsPresent},
		input.ExpiresAt,
		input.At,
	)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return record, r.notUpdatedError(ctx, input.ID)
	}
	return record, err
}

func (r *PgxRepository) ConsumeToken(ctx context.Context, id verification.ID, at time.Time) (verification.Record, error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE auth_verify
		SET token_is_used = TRUE, updated_at = $2
		WHERE id = $1 AND NOT token_is_used
		RETURNING `+recordColumns,
		int64(id),
		at,
	)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return record, r.notUpdatedError(ctx, id)
	}
	return record, err
}

// A conditional update matches no rows either when the record is gone or
// when another request has consumed it first.
func (r *PgxRepository) notUpdatedError(ctx context.Context, id verification.ID) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM auth_verify WHERE id = $1)`, int64(id)).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return verification.ErrRecordDoesNotExist
	}
	return verification.ErrAlreadyUsed
}

func (r *PgxRepository) get(row pgx.Row) (verification.Record, error) {
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return record, verification.ErrRecordDoesNotExist
	}
	return record, err
}

func scanRecord(row pgx.Row) (record verification.Record, err error) {
	var (
		id       int64
		userID   int64
		purpose  string
		code     string
		codeHash string
		token    sql.NullString
	)
	err = row.Scan(
		&id,
		&userID,
		&purpose,
		&code,
		&codeHash,
		&token,
		&record.CodeIsUsed,
		&record.TokenIsUsed,
		&record.ExpiresAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return record, err
	}
	record.ID = verification.ID(id)
	record.UserID = user.ID(userID)
	record.Purpose = verification.Purpose(purpose)
	record.Code = verification.Code(code)
	record.CodeHash = verification.CodeHash(codeHash)
	record.Token = verification.Token(token.String)
	record.ExpiresAt = record.ExpiresAt.UTC()
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	if !record.Purpose.IsValid() {
		return record, e.NewInvalidStateError(fmt.Sprintf("invalid purpose %q of record %d", purpose, id))
	}
	return record, nil
}
