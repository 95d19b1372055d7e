// Package mocks provides mock implementations for testing account use cases
// and HTTP handlers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing.
type MockAccountRepository struct {
	mock.Mock
}

// Create mocks the Create method of AccountRepository.
func (m *MockAccountRepository) Create(ctx context.Context, account *accountsDomain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// GetForUpdate mocks the GetForUpdate method of AccountRepository.
func (m *MockAccountRepository) GetForUpdate(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
) (*accountsDomain.Account, error) {
	args := m.Called(ctx, tenantKey, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountsDomain.Account), args.Error(1)
}

// StampAccessed mocks the StampAccessed method of AccountRepository.
func (m *MockAccountRepository) StampAccessed(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	at time.Time,
) error {
	args := m.Called(ctx, tenantKey, id, at)
	return args.Error(0)
}

// UpdateUsername mocks the UpdateUsername method of AccountRepository.
func (m *MockAccountRepository) UpdateUsername(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	username string,
	at time.Time,
) error {
	args := m.Called(ctx, tenantKey, id, username, at)
	return args.Error(0)
}

// UpdatePassword mocks the UpdatePassword method of AccountRepository.
func (m *MockAccountRepository) UpdatePassword(
	ctx context.Context,
	tenantKey string,
	id uuid.UUID,
	password, wrappedKey, iv string,
	at time.Time,
) error {
	args := m.Called(ctx, tenantKey, id, password, wrappedKey, iv, at)
	return args.Error(0)
}

// Delete mocks the Delete method of AccountRepository.
func (m *MockAccountRepository) Delete(ctx context.Context, tenantKey string, id uuid.UUID) error {
	args := m.Called(ctx, tenantKey, id)
	return args.Error(0)
}

// List mocks the List method of AccountRepository.
func (m *MockAccountRepository) List(
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

// StampAccessedMatching mocks the StampAccessedMatching method of AccountRepository.
func (m *MockAccountRepository) StampAccessedMatching(
	ctx context.Context,
	tenantKey string,
	opts *accountsDomain.ListOptions,
	at time.Time,
) error {
	args := m.Called(ctx, tenantKey, opts, at)
	return args.Error(0)
}
