package domain

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/components"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/app/renderer"
	"github.com/FACorreiaa/estate-templui/internal/app/session"
)

const titleSuffix = " - Estate"

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) newLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	s, _ := session.Current(c)
	return models.LayoutTempl{
		Title:     title + titleSuffix,
		Session:   s,
		Nav:       models.NavFor(s),
		ActiveNav: activeNav,
		Toasts:    session.Toasts(c),
		Content:   content,
	}
}

func (h *BaseHandler) Render(c *gin.Context, status int, component templ.Component) {
	if err := renderer.New(c, status, component).Render(c.Writer); err != nil {
		h.Logger.Error("Rendering failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
}

// RenderPage renders the full layout, except for plain htmx swaps which get
// the content plus an out-of-band toast update. Boosted navigations are full
// pages.
func (h *BaseHandler) RenderPage(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	if IsFragmentRequest(c) {
		h.RenderFragment(c, status, content)
		return
	}
	h.Render(c, status, components.Layout(h.newLayoutData(c, title, activeNav, content)))
}

// RenderFragment renders content followed by any queued toasts.
func (h *BaseHandler) RenderFragment(c *gin.Context, status int, content templ.Component) {
	toasts := session.Toasts(c)
	h.Render(c, status, templ.Join(content, components.OOBToasts(toasts)))
}

func (h *BaseHandler) NotFound(c *gin.Context, what string) {
	h.RenderPage(c, http.StatusNotFound, "Not found", "", components.NotFound(what))
}

// IsFragmentRequest reports an htmx request that swaps part of the page.
func IsFragmentRequest(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true" && c.GetHeader("HX-Boosted") != "true"
}
