package auth

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/services"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	tokenValidator user.SessionTokenValidator
	userRepository user.UserRepository
	inner          services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	tokenValidator user.SessionTokenValidator,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if tokenValidator == nil {
		panic(e.NewNilArgumentError("tokenValidator"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		tokenValidator: tokenValidator,
		userRepository: userRepository,
		inner:          inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	authToken, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.SessionToken)
	if !ok {
		return result, user.ErrInvalidSessionToken
	}
	userID, err := s.tokenValidator.ParseSessionToken(authToken)
	if err != nil {
		return result, user.ErrInvalidSessionToken
	}
	u, err := s.userRepository.GetByID(ctx, userID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrInvalidSessionToken
	}
	if err != nil {
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}
