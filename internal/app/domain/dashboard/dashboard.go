package dashboard

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/estate-templui/internal/app/components"
	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/app/session"
)

const (
	MsgPropertiesUnavailable    = "Listings could not be loaded."
	MsgNotificationsUnavailable = "Notifications could not be loaded."

	adminLimit       = 100
	recommendedLimit = 6
)

// Backend is what a dashboard reads, authenticated as the current user.
type Backend interface {
	ListProperties(ctx context.Context, q models.PropertyQuery) ([]models.Property, error)
	ListNotifications(ctx context.Context) ([]models.Notification, error)
}

// BackendFor resolves the backend for the request's user.
type BackendFor func(c *gin.Context) Backend

// SessionBackend uses the token-scoped client installed by the session
// provider.
func SessionBackend(c *gin.Context) Backend {
	return session.API(c)
}

type DashboardHandlers struct {
	*domain.BaseHandler
	backendFor BackendFor
}

func NewDashboardHandlers(base *domain.BaseHandler, backendFor BackendFor) *DashboardHandlers {
	if backendFor == nil {
		backendFor = SessionBackend
	}
	return &DashboardHandlers{BaseHandler: base, backendFor: backendFor}
}

func (h *DashboardHandlers) ShowAdmin(c *gin.Context) {
	h.show(c, adminLimit, components.AdminDashboard)
}

func (h *DashboardHandlers) ShowAgent(c *gin.Context) {
	h.show(c, adminLimit, components.AgentDashboard)
}

func (h *DashboardHandlers) ShowUser(c *gin.Context) {
	h.show(c, recommendedLimit, components.UserDashboard)
}

func (h *DashboardHandlers) show(c *gin.Context, limit int, page func(components.DashboardData) templ.Component) {
	s, ok := session.Current(c)
	if !ok {
		// RequireRole runs first; this is only reachable when it is not wired.
		session.SendRedirect(c, models.RouteSignIn)
		return
	}
	data := h.Load(c.Request.Context(), h.backendFor(c), *s, limit)
	h.RenderPage(c, http.StatusOK, "Dashboard", "Dashboard", page(data))
}

// Load fetches listings and notifications concurrently. A failed section is
// reported in place; the other still renders.
func (h *DashboardHandlers) Load(ctx context.Context, backend Backend, s models.Session, limit int) components.DashboardData {
	data := components.DashboardData{Session: s}
	l := h.Logger.With(zap.String("userID", s.ID))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		props, err := backend.ListProperties(ctx, models.PropertyQuery{Limit: limit})
		if err != nil {
			l.Warn("Dashboard listings failed", zap.Error(err))
			data.PropertiesErr = MsgPropertiesUnavailable
			return nil
		}
		data.Properties = props
		return nil
	})
	g.Go(func() error {
		notes, err := backend.ListNotifications(ctx)
		if err != nil {
			l.Warn("Dashboard notifications failed", zap.Error(err))
			data.NotificationsErr = MsgNotificationsUnavailable
			return nil
		}
		data.Notifications = notes
		return nil
	})
	_ = g.Wait()
	return data
}
