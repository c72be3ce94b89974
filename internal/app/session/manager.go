// Package session owns the "who is signed in" state of one browser (or CLI
// user). A Manager mediates between the UI and the backend auth API, keeps
// the in-memory session and the persisted token/user slots in step, and
// reports outcomes through a Notifier and a Navigator.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/app/observability/metrics"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
	"github.com/FACorreiaa/estate-templui/internal/pkg/storage"
)

// AuthAPI is the slice of the backend client the Manager needs.
type AuthAPI interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	Verify(ctx context.Context) (*apiclient.VerifyResponse, error)
	Logout(ctx context.Context) error
}

// Notifier shows one-shot messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator sends the user to another screen.
type Navigator interface {
	Navigate(route string)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Manager is not shared between browsers; build one per application instance.
// Its methods are safe for concurrent use because bootstrap verification runs
// in the background.
type Manager struct {
	api       AuthAPI
	store     storage.Store
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger

	mu      sync.RWMutex
	current *models.Session
	loading bool
}

func NewManager(api AuthAPI, store storage.Store, notifier Notifier, navigator Navigator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		api:       api,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
		loading:   true,
	}
}

// Current returns a copy of the active session.
func (m *Manager) Current() (*models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	s := *m.current
	s.Roles = append([]models.Role(nil), m.current.Roles...)
	return &s, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

func (m *Manager) HasRole(roles ...models.Role) bool {
	s, ok := m.Current()
	return ok && s.HasRole(roles...)
}

// Loading is true until the synchronous part of Bootstrap has run.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) setCurrent(s *models.Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}

// Bootstrap restores the persisted session without waiting for the backend.
// A parseable record becomes the active session at once and is re-validated
// in the background; the returned channel closes when that check is done
// (immediately when there is nothing to check). Loading is false on return.
func (m *Manager) Bootstrap(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	l := m.logger.With(zap.String("method", "Bootstrap"))

	raw, ok, err := m.store.Get(ctx, UserKey)
	if err != nil {
		l.Warn("Reading persisted session failed, starting signed out", zap.Error(err))
		ok = false
	}
	if !ok {
		metrics.RecordBootstrap(ctx, "empty")
		close(done)
		return done
	}

	s, err := models.ParseSession(raw)
	if err != nil {
		l.Warn("Persisted session is corrupted", zap.Error(err))
		m.clearLocal(ctx)
		m.notifier.Error(MsgCorruptedSession)
		metrics.RecordBootstrap(ctx, "corrupt")
		close(done)
		return done
	}

	m.setCurrent(s)
	metrics.RecordBootstrap(ctx, "restored")
	l.Debug("Restored persisted session", zap.String("userID", s.ID))

	verifyCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		m.VerifyToken(verifyCtx)
	}()
	return done
}

// Hydrate loads the persisted session without contacting the backend. Used
// for partial-page requests that follow a bootstrapped page load.
func (m *Manager) Hydrate(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	raw, ok, err := m.store.Get(ctx, UserKey)
	if err != nil || !ok {
		return
	}
	s, err := models.ParseSession(raw)
	if err != nil {
		m.logger.Warn("Persisted session is corrupted", zap.String("method", "Hydrate"), zap.Error(err))
		m.clearLocal(ctx)
		return
	}
	m.setCurrent(s)
}

// Login exchanges credentials for a token and lands the user on the screen
// for their primary role.
func (m *Manager) Login(ctx context.Context, email, password string) {
	l := m.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	resp, err := m.api.Login(ctx, apiclient.LoginRequest{Email: email, Password: password})
	if err == nil {
		var s models.Session
		s, err = m.persist(ctx, resp.AccessToken, resp.User)
		if err == nil {
			metrics.RecordAuth(ctx, "login", "success")
			l.Info("Login successful", zap.String("userID", s.ID))
			m.notifier.Success(fmt.Sprintf(MsgLoginSuccess, s.Username))
			m.navigator.Navigate(models.LandingRoute(s.PrimaryRole()))
			return
		}
	}

	m.clearLocal(ctx)
	if apiclient.IsUnauthorized(err) {
		metrics.RecordAuth(ctx, "login", "invalid_credentials")
		l.Warn("Login rejected", zap.Error(err))
		m.notifier.Error(MsgInvalidCreds)
		return
	}
	metrics.RecordAuth(ctx, "login", "error")
	l.Error("Login failed", zap.Error(err))
	m.notifier.Error(MsgLoginFailed)
}

// Register creates the account, signs the user in and sends them home.
func (m *Manager) Register(ctx context.Context, in RegisterInput) {
	l := m.logger.With(zap.String("method", "Register"), zap.String("email", in.Email))
	l.Debug("Attempting registration")

	resp, err := m.api.Register(ctx, apiclient.RegisterRequest{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err == nil {
		var s models.Session
		s, err = m.persist(ctx, resp.AccessToken, resp.User)
		if err == nil {
			metrics.RecordAuth(ctx, "register", "success")
			l.Info("Registration successful", zap.String("userID", s.ID))
			m.notifier.Success(MsgRegisterSuccess)
			m.navigator.Navigate(models.RouteHome)
			return
		}
	}

	m.clearLocal(ctx)
	metrics.RecordAuth(ctx, "register", "error")
	l.Error("Registration failed", zap.Error(err))
	m.notifier.Error(messageOr(err, MsgRegisterFailed))
}

// Logout ends the backend session first. When the backend call fails the
// local session is kept so the user can retry.
func (m *Manager) Logout(ctx context.Context) {
	l := m.logger.With(zap.String("method", "Logout"))

	if err := m.api.Logout(ctx); err != nil {
		metrics.RecordAuth(ctx, "logout", "error")
		l.Error("Backend logout failed, keeping local session", zap.Error(err))
		m.notifier.Error(messageOr(err, MsgLogoutFailed))
		return
	}

	m.clearLocal(ctx)
	metrics.RecordAuth(ctx, "logout", "success")
	l.Info("Logout successful")
	m.notifier.Success(MsgLogoutSuccess)
	m.navigator.Navigate(models.RouteHome)
}

// VerifyToken asks the backend whether the ambient credentials are still good.
// A valid answer re-saves the canonical user under the existing token; any
// other outcome signs the user out locally and sends them to sign in.
func (m *Manager) VerifyToken(ctx context.Context) {
	l := m.logger.With(zap.String("method", "VerifyToken"))

	resp, err := m.api.Verify(ctx)
	if err == nil && resp.Valid && resp.User.ID == "" {
		err = fmt.Errorf("verify: %w", models.ErrCorruptSession)
	}
	if err == nil && resp.Valid {
		s := resp.User.Session()
		raw, merr := s.Marshal()
		if merr == nil {
			merr = m.store.Set(ctx, UserKey, raw)
		}
		if merr == nil {
			m.setCurrent(&s)
			metrics.RecordAuth(ctx, "verify", "valid")
			l.Debug("Session verified", zap.String("userID", s.ID))
			return
		}
		err = merr
	}

	if err != nil {
		metrics.RecordAuth(ctx, "verify", "error")
		l.Warn("Session verification failed", zap.Error(err))
	} else {
		metrics.RecordAuth(ctx, "verify", "invalid")
		l.Info("Session no longer valid")
	}
	m.clearLocal(ctx)
	m.navigator.Navigate(models.RouteSignIn)
}

// persist writes token and user, then makes the session active. A failed
// write leaves nothing active.
func (m *Manager) persist(ctx context.Context, token string, u models.User) (models.Session, error) {
	s := u.Session()
	raw, err := s.Marshal()
	if err != nil {
		return s, err
	}
	if err := m.store.Set(ctx, TokenKey, token); err != nil {
		return s, fmt.Errorf("persist token: %w", err)
	}
	if err := m.store.Set(ctx, UserKey, raw); err != nil {
		return s, fmt.Errorf("persist user: %w", err)
	}
	m.setCurrent(&s)
	return s, nil
}

func (m *Manager) clearLocal(ctx context.Context) {
	m.setCurrent(nil)
	if err := m.store.Delete(ctx, TokenKey, UserKey); err != nil {
		m.logger.Error("Clearing persisted session failed", zap.Error(err))
	}
}

func messageOr(err error, fallback string) string {
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return fallback
}
