package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
)

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Verify(ctx context.Context) (*apiclient.VerifyResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.VerifyResponse), args.Error(1)
}

func (m *MockAuthAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(msg string) { m.Called(msg) }
func (m *MockNotifier) Error(msg string)   { m.Called(msg) }

type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(route string) { m.Called(route) }
