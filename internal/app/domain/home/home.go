package home

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/estate-templui/internal/app/components"
	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/domain/properties"
)

type HomeHandlers struct {
	*domain.BaseHandler
	listings properties.Service
}

func NewHomeHandlers(base *domain.BaseHandler, listings properties.Service) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base, listings: listings}
}

// ShowHomePage is the public landing page with the listing grid. It renders
// for everyone; signed-in users get their role navigation.
func (h *HomeHandlers) ShowHomePage(c *gin.Context) {
	q := properties.ParseQuery(c)
	props, err := h.listings.Search(c.Request.Context(), q)
	loadErr := ""
	if err != nil {
		loadErr = properties.MsgListingsUnavailable
	}
	h.RenderPage(c, http.StatusOK, "Listings", "Listings", components.HomePage(q, props, loadErr))
}
