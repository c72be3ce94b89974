package session

import (
	"context"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
	"github.com/FACorreiaa/estate-templui/internal/pkg/storage"
)

const (
	managerKey   = "session.manager"
	navigatorKey = "session.navigator"
	notifierKey  = "session.notifier"
	apiKey       = "session.api"
	browserIDKey = "bid"
)

// StoreFactory resolves the persisted slots of the browser behind c.
type StoreFactory func(c *gin.Context) (storage.Store, error)

// CookieStores keeps the slots inside the signed session cookie itself.
func CookieStores() StoreFactory {
	return func(c *gin.Context) (storage.Store, error) {
		return storage.NewCookie(sessions.Default(c)), nil
	}
}

// RedisStores keeps the slots in redis under the browser id.
func RedisStores(r *storage.Redis) StoreFactory {
	return func(c *gin.Context) (storage.Store, error) {
		id, err := BrowserID(c)
		if err != nil {
			return nil, err
		}
		return r.For(id), nil
	}
}

// MemoryStores keeps the slots in process memory under the browser id.
func MemoryStores(m *storage.Memory) StoreFactory {
	return func(c *gin.Context) (storage.Store, error) {
		id, err := BrowserID(c)
		if err != nil {
			return nil, err
		}
		return m.For(id), nil
	}
}

// BrowserID returns the random id kept in the session cookie, minting one on
// first visit.
func BrowserID(c *gin.Context) (string, error) {
	s := sessions.Default(c)
	if id, ok := s.Get(browserIDKey).(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	s.Set(browserIDKey, id)
	if err := s.Save(); err != nil {
		return "", fmt.Errorf("save browser id: %w", err)
	}
	return id, nil
}

// Provider builds one Manager per request, bound to that browser's slots.
// It is the only place Managers are constructed for the web app.
type Provider struct {
	api      *apiclient.Client
	stores   StoreFactory
	logger   *zap.Logger
	blocking bool
}

type ProviderOption func(*Provider)

// WithBlockingVerify controls whether full page loads wait for the backend to
// confirm a restored session. Turning it off renders the optimistic session
// and lets verification finish in the background; only use it with stores
// that outlive the request (redis, memory).
func WithBlockingVerify(blocking bool) ProviderOption {
	return func(p *Provider) { p.blocking = blocking }
}

func NewProvider(api *apiclient.Client, stores StoreFactory, logger *zap.Logger, opts ...ProviderOption) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{api: api, stores: stores, logger: logger, blocking: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Middleware must run after the gin-contrib/sessions middleware. Full page
// loads bootstrap; htmx and non-GET requests only hydrate from the slots.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := apiclient.ContextWithRequestID(c.Request.Context(), c.Writer.Header().Get("X-Request-Id"))
		c.Request = c.Request.WithContext(ctx)

		store, err := p.stores(c)
		if err != nil {
			p.logger.Error("Resolving session store failed, serving signed out", zap.Error(err))
			store = storage.NewMemory(0)
		}

		notifier := NewFlashNotifier(sessions.Default(c), func(err error) {
			p.logger.Warn("Saving flash failed", zap.Error(err))
		})
		navigator := &RecordingNavigator{}
		api := p.api.WithTokenSource(TokenFrom(store))
		m := NewManager(api, store, notifier, navigator, p.logger)

		c.Set(managerKey, m)
		c.Set(navigatorKey, navigator)
		c.Set(notifierKey, notifier)
		c.Set(apiKey, api)

		if !isFullPageLoad(c) {
			m.Hydrate(ctx)
			c.Next()
			return
		}

		done := m.Bootstrap(ctx)
		if !p.blocking {
			c.Next()
			return
		}
		<-done
		if route, ok := navigator.Target(); ok && route != c.Request.URL.Path {
			navigator.Reset()
			SendRedirect(c, route)
			c.Abort()
			return
		}
		navigator.Reset()
		c.Next()
	}
}

// TokenFrom reads the bearer token from the persisted token slot.
func TokenFrom(store storage.Store) apiclient.TokenSource {
	return func(ctx context.Context) (string, error) {
		token, _, err := store.Get(ctx, TokenKey)
		return token, err
	}
}

func isFullPageLoad(c *gin.Context) bool {
	return c.Request.Method == "GET" && c.GetHeader("HX-Request") != "true"
}

// FromContext returns the request's Manager. It panics if the Provider
// middleware did not run, which is a wiring bug.
func FromContext(c *gin.Context) *Manager {
	return c.MustGet(managerKey).(*Manager)
}

// Current is a shortcut for FromContext(c).Current() that tolerates a missing
// provider (nil, false).
func Current(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(managerKey)
	if !ok {
		return nil, false
	}
	return v.(*Manager).Current()
}

// API returns the backend client that authenticates as this browser's user.
func API(c *gin.Context) *apiclient.Client {
	return c.MustGet(apiKey).(*apiclient.Client)
}

// NavigatedTo reports where the last Manager operation asked to go.
func NavigatedTo(c *gin.Context) (string, bool) {
	v, ok := c.Get(navigatorKey)
	if !ok {
		return "", false
	}
	return v.(*RecordingNavigator).Target()
}

// Toasts pops the toasts queued for this browser.
func Toasts(c *gin.Context) []models.Toast {
	v, ok := c.Get(notifierKey)
	if !ok {
		return nil
	}
	return v.(*FlashNotifier).Drain()
}
