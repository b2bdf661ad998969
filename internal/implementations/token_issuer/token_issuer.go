package tokenissuer

import (
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindSession       = "session"
	kindPasswordReset = "password-reset"
)

type claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// JWT mints HS256 bearer tokens for sessions and password resets.
type JWT struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewJWT(
	secret string,
	issuer string,
	sessionTTL time.Duration,
	resetTTL time.Duration,
	now func() time.Time,
) *JWT {
	if secret == "" {
		panic(e.NewEmptyArgumentError("secret"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{
		secret:     []byte(secret),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        now,
	}
}

func (j *JWT) IssueSessionToken(id user.ID) (user.SessionToken, error) {
	token, err := j.sign(kindSession, strconv.FormatInt(int64(id), 10), j.sessionTTL)
	return user.SessionToken(token), err
}

func (j *JWT) ParseSessionToken(token user.SessionToken) (id user.ID, err error) {
	c, err := j.parse(string(token), kindSession)
	if err != nil {
		return id, fmt.Errorf("%w: %v", user.ErrInvalidSessionToken, err)
	}
	rawID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return id, fmt.Errorf("%w: invalid subject", user.ErrInvalidSessionToken)
	}
	return user.ID(rawID), nil
}

// IssuePasswordResetToken binds the token to the confirmed code.
func (j *JWT) IssuePasswordResetToken(code verification.Code) (verification.Token, error) {
	token, err := j.sign(kindPasswordReset, string(code), j.resetTTL)
	return verification.Token(token), err
}

func (j *JWT) sign(kind string, subject string, ttl time.Duration) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(j.secret)
}

func (j *JWT) parse(token string, kind string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(
		token,
		c,
		func(t *jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, errors.New("unexpected token kind")
	}
	return c, nil
}
