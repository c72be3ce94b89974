package properties

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/components"
	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

const MsgListingsUnavailable = "Listings are unavailable right now. Please try again later."

type PropertiesHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewPropertiesHandlers(base *domain.BaseHandler, service Service) *PropertiesHandlers {
	return &PropertiesHandlers{BaseHandler: base, service: service}
}

// ParseQuery reads ?q=&city=&limit= from the request.
func ParseQuery(c *gin.Context) models.PropertyQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return Normalize(models.PropertyQuery{
		Search: c.Query("q"),
		City:   c.Query("city"),
		Limit:  limit,
	})
}

// SearchFragment answers the search form's htmx swap. Plain requests are sent
// to the home page with the same query.
func (h *PropertiesHandlers) SearchFragment(c *gin.Context) {
	q := ParseQuery(c)
	if !domain.IsFragmentRequest(c) {
		c.Redirect(http.StatusSeeOther, models.RouteHome+"?"+encode(q))
		return
	}
	props, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		h.Render(c, http.StatusOK, components.ErrorBanner(MsgListingsUnavailable))
		return
	}
	c.Header("HX-Push-Url", models.RouteHome+"?"+encode(q))
	h.Render(c, http.StatusOK, components.Listings(props))
}

func (h *PropertiesHandlers) ShowProperty(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrBadRequest):
		h.NotFound(c, "property")
		return
	case err != nil:
		h.Logger.Error("Loading property failed", zap.String("id", c.Param("id")), zap.Error(err))
		h.RenderPage(c, http.StatusBadGateway, "Listings", "Listings", components.ErrorBanner(MsgListingsUnavailable))
		return
	}
	h.RenderPage(c, http.StatusOK, p.Title, "Listings", components.PropertyDetail(*p))
}

func encode(q models.PropertyQuery) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	return v.Encode()
}
