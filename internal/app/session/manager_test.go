package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
	"github.com/FACorreiaa/estate-templui/internal/pkg/storage"
)

type fixture struct {
	api      *MockAuthAPI
	store    *storage.Memory
	notifier *MockNotifier
	nav      *MockNavigator
	manager  *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api:      new(MockAuthAPI),
		store:    storage.NewMemory(0),
		notifier: new(MockNotifier),
		nav:      new(MockNavigator),
	}
	f.manager = NewManager(f.api, f.store, f.notifier, f.nav, zap.NewNop())
	t.Cleanup(func() {
		f.api.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
		f.nav.AssertExpectations(t)
	})
	return f
}

func (f *fixture) slot(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := f.store.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func (f *fixture) seed(t *testing.T, token, user string) {
	t.Helper()
	ctx := context.Background()
	if token != "" {
		require.NoError(t, f.store.Set(ctx, TokenKey, token))
	}
	if user != "" {
		require.NoError(t, f.store.Set(ctx, UserKey, user))
	}
}

func agentResponse() *apiclient.AuthResponse {
	return &apiclient.AuthResponse{
		AccessToken: "t1",
		User:        models.User{ID: "u1", FirstName: "A", LastName: "B", Roles: []models.Role{models.RoleAgent}},
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	creds := apiclient.LoginRequest{Email: "a@b.com", Password: "x"}

	t.Run("agent lands on agent dashboard", func(t *testing.T) {
		f := newFixture(t)
		f.api.On("Login", ctx, creds).Return(agentResponse(), nil).Once()
		f.notifier.On("Success", "Welcome back, A B!").Once()
		f.nav.On("Navigate", models.RouteAgentDashboard).Once()

		f.manager.Login(ctx, "a@b.com", "x")

		s, ok := f.manager.Current()
		require.True(t, ok)
		assert.Equal(t, models.Session{ID: "u1", Username: "A B", Roles: []models.Role{models.RoleAgent}}, *s)

		token, _ := f.slot(t, TokenKey)
		assert.Equal(t, "t1", token)

		raw, ok := f.slot(t, UserKey)
		require.True(t, ok)
		persisted, err := models.ParseSession(raw)
		require.NoError(t, err)
		assert.Equal(t, *s, *persisted, "persisted copy must match the in-memory session")
	})

	t.Run("routes by primary role", func(t *testing.T) {
		cases := map[models.Role]string{
			models.RoleAdmin:    models.RouteAdminDashboard,
			models.RoleUser:     models.RouteUserDashboard,
			models.RoleInvestor: models.RouteUserDashboard,
		}
		for role, route := range cases {
			f := newFixture(t)
			resp := agentResponse()
			resp.User.Roles = []models.Role{role, models.RoleAgent}
			f.api.On("Login", ctx, creds).Return(resp, nil).Once()
			f.notifier.On("Success", mock.Anything).Once()
			f.nav.On("Navigate", route).Once()

			f.manager.Login(ctx, "a@b.com", "x")
		}
	})

	t.Run("missing roles default to user", func(t *testing.T) {
		f := newFixture(t)
		resp := agentResponse()
		resp.User.Roles = nil
		f.api.On("Login", ctx, creds).Return(resp, nil).Once()
		f.notifier.On("Success", mock.Anything).Once()
		f.nav.On("Navigate", models.RouteUserDashboard).Once()

		f.manager.Login(ctx, "a@b.com", "x")

		s, ok := f.manager.Current()
		require.True(t, ok)
		assert.Equal(t, []models.Role{models.RoleUser}, s.Roles)
	})

	t.Run("401 clears state and shows invalid credentials", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "old", `{"id":"old","username":"Old","roles":[2]}`)
		f.api.On("Login", ctx, creds).
			Return(nil, &apiclient.APIError{StatusCode: 401, Message: "Unauthorized"}).Once()
		f.notifier.On("Error", MsgInvalidCreds).Once()

		f.manager.Login(ctx, "a@b.com", "x")

		assert.False(t, f.manager.IsAuthenticated())
		_, ok := f.slot(t, UserKey)
		assert.False(t, ok)
		_, ok = f.slot(t, TokenKey)
		assert.False(t, ok)
		f.notifier.AssertNotCalled(t, "Error", MsgLoginFailed)
		f.nav.AssertNotCalled(t, "Navigate", mock.Anything)
	})

	t.Run("other failures show the generic message", func(t *testing.T) {
		for _, err := range []error{
			&apiclient.APIError{StatusCode: 500, Message: "boom"},
			&apiclient.APIError{StatusCode: 403, Message: "Account locked"},
			errors.New("dial tcp: connection refused"),
		} {
			f := newFixture(t)
			f.api.On("Login", ctx, creds).Return(nil, err).Once()
			f.notifier.On("Error", MsgLoginFailed).Once()

			f.manager.Login(ctx, "a@b.com", "x")
			assert.False(t, f.manager.IsAuthenticated())
		}
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	in := RegisterInput{Email: "c@d.com", Password: "pw", FirstName: "Cee", LastName: "Dee"}
	req := apiclient.RegisterRequest{Email: "c@d.com", Password: "pw", FirstName: "Cee", LastName: "Dee"}

	t.Run("success signs in and goes home", func(t *testing.T) {
		f := newFixture(t)
		f.api.On("Register", ctx, req).Return(&apiclient.AuthResponse{
			AccessToken: "t9",
			User:        models.User{ID: "u9", FirstName: "Cee", LastName: "Dee"},
		}, nil).Once()
		f.notifier.On("Success", MsgRegisterSuccess).Once()
		f.nav.On("Navigate", models.RouteHome).Once()

		f.manager.Register(ctx, in)

		s, ok := f.manager.Current()
		require.True(t, ok)
		assert.Equal(t, "Cee Dee", s.Username)
		assert.Equal(t, []models.Role{models.RoleUser}, s.Roles)
		token, _ := f.slot(t, TokenKey)
		assert.Equal(t, "t9", token)
	})

	t.Run("surfaces backend message", func(t *testing.T) {
		f := newFixture(t)
		f.api.On("Register", ctx, req).
			Return(nil, &apiclient.APIError{StatusCode: 409, Message: "Email already registered"}).Once()
		f.notifier.On("Error", "Email already registered").Once()

		f.manager.Register(ctx, in)
		assert.False(t, f.manager.IsAuthenticated())
	})

	t.Run("falls back to generic message", func(t *testing.T) {
		f := newFixture(t)
		f.api.On("Register", ctx, req).Return(nil, errors.New("timeout")).Once()
		f.notifier.On("Error", MsgRegisterFailed).Once()

		f.manager.Register(ctx, in)
		assert.False(t, f.manager.IsAuthenticated())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("success clears everything", func(t *testing.T) {
		f := newFixture(t)
		f.api.On("Login", ctx, mock.Anything).Return(agentResponse(), nil).Once()
		f.notifier.On("Success", mock.Anything).Twice()
		f.nav.On("Navigate", models.RouteAgentDashboard).Once()
		f.manager.Login(ctx, "a@b.com", "x")

		f.api.On("Logout", ctx).Return(nil).Once()
		f.nav.On("Navigate", models.RouteHome).Once()
		f.manager.Logout(ctx)

		assert.False(t, f.manager.IsAuthenticated())
		_, ok := f.slot(t, UserKey)
		assert.False(t, ok)
		_, ok = f.slot(t, TokenKey)
		assert.False(t, ok)
	})

	t.Run("backend failure keeps local session", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "t1", `{"id":"u1","username":"A B","roles":[5]}`)
		f.manager.Hydrate(ctx)
		require.True(t, f.manager.IsAuthenticated())

		f.api.On("Logout", ctx).Return(errors.New("network down")).Once()
		f.notifier.On("Error", MsgLogoutFailed).Once()

		f.manager.Logout(ctx)

		assert.True(t, f.manager.IsAuthenticated())
		_, ok := f.slot(t, UserKey)
		assert.True(t, ok)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid re-saves canonical user and keeps token", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "keep-me", `{"id":"u1","username":"Stale Name","roles":[2]}`)
		f.api.On("Verify", ctx).Return(&apiclient.VerifyResponse{
			Valid: true,
			User:  models.User{ID: "u1", FirstName: "Fresh", LastName: "Name", Roles: []models.Role{models.RoleSeller}},
		}, nil).Once()

		f.manager.VerifyToken(ctx)

		s, ok := f.manager.Current()
		require.True(t, ok)
		assert.Equal(t, "Fresh Name", s.Username)
		token, _ := f.slot(t, TokenKey)
		assert.Equal(t, "keep-me", token)
		raw, _ := f.slot(t, UserKey)
		assert.JSONEq(t, `{"id":"u1","username":"Fresh Name","roles":[3]}`, raw)
	})

	t.Run("invalid clears and redirects to sign in regardless of prior state", func(t *testing.T) {
		for _, prior := range []string{"", `{"id":"u1","username":"A B","roles":[1]}`} {
			f := newFixture(t)
			f.seed(t, "t1", prior)
			f.manager.Hydrate(ctx)
			f.api.On("Verify", ctx).Return(&apiclient.VerifyResponse{Valid: false}, nil).Once()
			f.nav.On("Navigate", models.RouteSignIn).Once()

			f.manager.VerifyToken(ctx)

			assert.False(t, f.manager.IsAuthenticated())
			_, ok := f.slot(t, TokenKey)
			assert.False(t, ok)
		}
	})

	t.Run("valid without a user is not a confirmation", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "t1", `{"id":"u1","username":"A B","roles":[1]}`)
		f.manager.Hydrate(ctx)
		f.api.On("Verify", ctx).Return(&apiclient.VerifyResponse{Valid: true}, nil).Once()
		f.nav.On("Navigate", models.RouteSignIn).Once()

		f.manager.VerifyToken(ctx)

		assert.False(t, f.manager.IsAuthenticated())
		_, ok := f.slot(t, UserKey)
		assert.False(t, ok)
		_, ok = f.slot(t, TokenKey)
		assert.False(t, ok)
	})

	t.Run("error behaves like invalid", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "t1", `{"id":"u1","username":"A B","roles":[1]}`)
		f.api.On("Verify", ctx).Return(nil, &apiclient.APIError{StatusCode: 401}).Once()
		f.nav.On("Navigate", models.RouteSignIn).Once()

		f.manager.VerifyToken(ctx)
		assert.False(t, f.manager.IsAuthenticated())
	})
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("no persisted session", func(t *testing.T) {
		f := newFixture(t)
		assert.True(t, f.manager.Loading())

		done := f.manager.Bootstrap(ctx)

		assert.False(t, f.manager.Loading())
		assert.False(t, f.manager.IsAuthenticated())
		select {
		case <-done:
		default:
			t.Fatal("nothing to verify, channel should already be closed")
		}
	})

	t.Run("corrupted record clears state with exactly one error", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "t1", "{definitely not json")
		f.notifier.On("Error", MsgCorruptedSession).Once()

		assert.NotPanics(t, func() { <-f.manager.Bootstrap(ctx) })

		assert.False(t, f.manager.IsAuthenticated())
		_, ok := f.slot(t, UserKey)
		assert.False(t, ok)
		_, ok = f.slot(t, TokenKey)
		assert.False(t, ok)
		f.notifier.AssertNumberOfCalls(t, "Error", 1)
		f.api.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("restores optimistically before verification finishes", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "t1", `{"id":"u1","username":"A B","roles":[5]}`)

		release := make(chan time.Time)
		f.api.On("Verify", mock.Anything).
			WaitUntil(release).
			Return(&apiclient.VerifyResponse{Valid: false}, nil).Once()
		f.nav.On("Navigate", models.RouteSignIn).Once()

		done := f.manager.Bootstrap(ctx)

		assert.False(t, f.manager.Loading(), "loading clears before verification completes")
		s, ok := f.manager.Current()
		require.True(t, ok)
		assert.Equal(t, "u1", s.ID)

		close(release)
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("verification did not finish")
		}
		assert.False(t, f.manager.IsAuthenticated())
	})

	t.Run("verification survives caller cancellation", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "t1", `{"id":"u1","username":"A B","roles":[2]}`)
		f.api.On("Verify", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })).
			Return(&apiclient.VerifyResponse{Valid: true, User: models.User{ID: "u1", FirstName: "A", LastName: "B"}}, nil).Once()

		reqCtx, cancel := context.WithCancel(ctx)
		done := f.manager.Bootstrap(reqCtx)
		cancel()
		<-done

		assert.True(t, f.manager.IsAuthenticated())
	})
}

func TestCurrentReturnsCopy(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "t1", `{"id":"u1","username":"A B","roles":[1]}`)
	f.manager.Hydrate(context.Background())

	s, _ := f.manager.Current()
	s.Roles[0] = models.RoleUser

	again, _ := f.manager.Current()
	assert.Equal(t, models.RoleAdmin, again.Roles[0])
	assert.True(t, f.manager.HasRole(models.RoleAdmin))
}

type failingStore struct {
	storage.Store
}

func (failingStore) Set(context.Context, string, string) error {
	return storage.ErrStoreUnavailable
}

func TestLoginStoreFailureLeavesNoSession(t *testing.T) {
	ctx := context.Background()
	api := new(MockAuthAPI)
	notifier := new(MockNotifier)
	nav := new(MockNavigator)
	m := NewManager(api, failingStore{storage.NewMemory(0)}, notifier, nav, nil)

	api.On("Login", ctx, mock.Anything).Return(agentResponse(), nil).Once()
	notifier.On("Error", MsgLoginFailed).Once()

	m.Login(ctx, "a@b.com", "x")

	assert.False(t, m.IsAuthenticated())
	nav.AssertNotCalled(t, "Navigate", mock.Anything)
	notifier.AssertExpectations(t)
}
