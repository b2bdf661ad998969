package verification

import (
	"context"
	"exzly/internal/core/domain/user"
	"time"
)

type ID int64

type Purpose string

const (
	PurposeAccountVerification Purpose = "account-verification"
	PurposePasswordReset       Purpose = "password-reset"
)

func (p Purpose) IsValid() bool {
	return p == PurposeAccountVerification || p == PurposePasswordReset
}

// Code is the 6-digit secret a user types in.
type Code string

func (c Code) String() string {
	return "******"
}

type CodeHash string

type Token string

func (t Token) String() string {
	return "***"
}

type SessionID string

const CodeLength = 6

var DefaultDenylist = []Code{
	"000000", "111111", "222222", "333333", "444444",
	"555555", "666666", "777777", "888888", "999999",
}

type Settings struct {
	ResetWindow time.Duration
	Denylist    []Code
}

func DefaultSettings() Settings {
	return Settings{ResetWindow: 15 * time.Minute, Denylist: DefaultDenylist}
}

type Record struct {
	ID          ID
	UserID      user.ID
	Purpose     Purpose
	Code        Code
	CodeHash    CodeHash
	Token       Token
	CodeIsUsed  bool
	TokenIsUsed bool
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Record) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

func (r *Record) IsUsed() bool {
	return r.CodeIsUsed || r.TokenIsUsed
}

type CodeGenerator interface {
	GenerateCode() (Code, error)
}

type CodeHasher interface {
	HashCode(code Code) CodeHash
}

type TokenIssuer interface {
	IssuePasswordResetToken(code Code) (Token, error)
}

type Notification struct {
	Purpose  Purpose
	Code     Code
	CodeHash CodeHash
}

type Notifier interface {
	NotifyCode(ctx context.Context, u user.User, n Notification) error
}

// MarkerStore keeps a short-lived reset token bound to a web session.
type MarkerStore interface {
	SetMarker(ctx context.Context, sid SessionID, token Token, ttl time.Duration) error
	GetMarker(ctx context.Context, sid SessionID) (Token, error)
	ClearMarker(ctx context.Context, sid SessionID) error
}
