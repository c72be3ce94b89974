// Package renderer lets gin render templ components through c.HTML.
package renderer

import (
	"context"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/estate-templui/internal/app/observability/metrics"
)

var _ render.HTMLRender = (*HTMLTemplRenderer)(nil)

// HTMLTemplRenderer renders templ components and hands anything else to the
// fallback (gin's template renderer, when configured).
type HTMLTemplRenderer struct {
	FallbackHTMLRenderer render.HTMLRender
}

func (r *HTMLTemplRenderer) Instance(name string, data any) render.Render {
	component, ok := data.(templ.Component)
	if !ok {
		if r.FallbackHTMLRenderer != nil {
			return r.FallbackHTMLRenderer.Instance(name, data)
		}
	}
	return &Renderer{
		Ctx:       context.Background(),
		Status:    -1,
		Component: component,
		Name:      name,
	}
}

// New renders component with the request's context. Status -1 leaves the
// status code to gin.
func New(c *gin.Context, status int, component templ.Component) *Renderer {
	return &Renderer{
		Ctx:       c.Request.Context(),
		Status:    status,
		Component: component,
		Name:      c.FullPath(),
	}
}

type Renderer struct {
	Ctx       context.Context
	Status    int
	Component templ.Component
	Name      string
}

func (t Renderer) Render(w http.ResponseWriter) error {
	t.WriteContentType(w)
	if t.Status != -1 {
		w.WriteHeader(t.Status)
	}
	if t.Component == nil {
		return nil
	}
	start := time.Now()
	err := t.Component.Render(t.Ctx, w)
	metrics.Get().TemplateRenderDuration.Record(t.Ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("template", t.Name)))
	return err
}

func (t Renderer) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
