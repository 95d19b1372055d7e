package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
)

// MockAccountUseCase is a mock implementation of AccountUseCase for testing.
type MockAccountUseCase struct {
	mock.Mock
}

// Create mocks the Create method of AccountUseCase.
func (m *MockAccountUseCase) Create(
	ctx context.Context,
	tenantKey, domainName, username, password, wrappedKey, iv string,
) (*accountsDomain.Account, error) {
	args := m.Called(ctx, tenantKey, domainName, username, password, wrappedKey, iv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountsDomain.Account), args.Error(1)
}

// Get mocks the Get method of AccountUseCase.
func (m *MockAccountUseCase) Get(
	ctx context.Context,
	tenantKey, accountID string,
) (*accountsDomain.Account, error) {
	args := m.Called(ctx, tenantKey, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountsDomain.Account), args.Error(1)
}

// List mocks the List method of AccountUseCase.
func (m *MockAccountUseCase) List(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
) ([]*accountsDomain.Account, error) {
	args := m.Called(ctx, tenantKey, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountsDomain.Account), args.Error(1)
}

// SetPassword mocks the SetPassword method of AccountUseCase.
func (m *MockAccountUseCase) SetPassword(
	ctx context.Context,
	tenantKey, accountID, password, wrappedKey, iv string,
) (*accountsDomain.Account, error) {
	args := m.Called(ctx, tenantKey, accountID, password, wrappedKey, iv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountsDomain.Account), args.Error(1)
}

// SetUsername mocks the SetUsername method of AccountUseCase.
func (m *MockAccountUseCase) SetUsername(
	ctx context.Context,
	tenantKey, accountID, username string,
) (*accountsDomain.Account, error) {
	args := m.Called(ctx, tenantKey, accountID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountsDomain.Account), args.Error(1)
}

// Delete mocks the Delete method of AccountUseCase.
func (m *MockAccountUseCase) Delete(ctx context.Context, tenantKey, accountID string) error {
	args := m.Called(ctx, tenantKey, accountID)
	return args.Error(0)
}
