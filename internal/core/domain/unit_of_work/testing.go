package uow

import (
	"context"
	"exzly/internal/core/domain/user"
	"exzly/internal/core/domain/verification"
	"sync"
)

type FakeUnitOfWorkContext struct {
	UserRepository         *user.FakeUserRepository
	VerificationRepository *verification.FakeRepository
	WasRollbackCalled      bool
	WasCommitCalled        bool
	lock                   sync.Mutex
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	verificationRepository *verification.FakeRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:         userRepository,
		VerificationRepository: verificationRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasCommitCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) Verifications() verification.Repository {
	return c.VerificationRepository
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(
			user.NewFakeUserRepository(),
			verification.NewFakeRepository(),
		),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, context.DeadlineExceeded
	}
	return u.Context, nil
}
