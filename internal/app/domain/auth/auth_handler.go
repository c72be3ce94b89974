package auth

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/components"
	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/app/session"
)

const MsgMissingFields = "Please fill in every field."

type AuthHandlers struct {
	*domain.BaseHandler
}

func NewAuthHandlers(base *domain.BaseHandler) *AuthHandlers {
	return &AuthHandlers{BaseHandler: base}
}

func (h *AuthHandlers) ShowSignIn(c *gin.Context) {
	if h.redirectSignedIn(c) {
		return
	}
	h.RenderPage(c, http.StatusOK, "Sign in", "Sign In", components.SignInPage(components.AuthForm{}))
}

func (h *AuthHandlers) ShowSignUp(c *gin.Context) {
	if h.redirectSignedIn(c) {
		return
	}
	h.RenderPage(c, http.StatusOK, "Sign up", "Sign Up", components.SignUpPage(components.AuthForm{}))
}

func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	form := components.AuthForm{Email: email}

	if email == "" || password == "" {
		h.Logger.Warn("Missing email or password")
		h.rejectForm(c, "Sign in", "Sign In", form, components.SignInPage, components.SignInForm)
		return
	}

	session.FromContext(c).Login(c.Request.Context(), email, password)
	h.finish(c, "Sign in", "Sign In", form, components.SignInPage, components.SignInForm)
}

func (h *AuthHandlers) RegisterHandler(c *gin.Context) {
	in := session.RegisterInput{
		Email:     strings.TrimSpace(c.PostForm("email")),
		Password:  c.PostForm("password"),
		FirstName: strings.TrimSpace(c.PostForm("firstName")),
		LastName:  strings.TrimSpace(c.PostForm("lastName")),
	}
	form := components.AuthForm{Email: in.Email, FirstName: in.FirstName, LastName: in.LastName}

	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		h.Logger.Warn("Incomplete registration form", zap.String("email", in.Email))
		h.rejectForm(c, "Sign up", "Sign Up", form, components.SignUpPage, components.SignUpForm)
		return
	}

	session.FromContext(c).Register(c.Request.Context(), in)
	h.finish(c, "Sign up", "Sign Up", form, components.SignUpPage, components.SignUpForm)
}

// LogoutHandler always redirects: home on success, back to the user's
// landing page (with the error toast) when the backend refused.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	m := session.FromContext(c)
	m.Logout(c.Request.Context())

	if route, ok := session.NavigatedTo(c); ok {
		session.SendRedirect(c, route)
		return
	}
	route := models.RouteHome
	if s, ok := m.Current(); ok {
		route = models.LandingRoute(s.PrimaryRole())
	}
	session.SendRedirect(c, route)
}

type formRenderer func(components.AuthForm) templ.Component

// finish follows the Manager's navigation or, when there is none, shows the
// form again with the queued toasts.
func (h *AuthHandlers) finish(c *gin.Context, title, nav string, form components.AuthForm, page, fragment formRenderer) {
	if route, ok := session.NavigatedTo(c); ok {
		session.SendRedirect(c, route)
		return
	}
	if domain.IsFragmentRequest(c) {
		form.Toasts = session.Toasts(c)
		// htmx only swaps 2xx responses.
		h.Render(c, http.StatusOK, fragment(form))
		return
	}
	h.RenderPage(c, http.StatusUnprocessableEntity, title, nav, page(form))
}

func (h *AuthHandlers) rejectForm(c *gin.Context, title, nav string, form components.AuthForm, page, fragment formRenderer) {
	form.Toasts = []models.Toast{{Kind: models.ToastError, Message: MsgMissingFields}}
	if domain.IsFragmentRequest(c) {
		h.Render(c, http.StatusOK, fragment(form))
		return
	}
	h.RenderPage(c, http.StatusBadRequest, title, nav, page(form))
}

func (h *AuthHandlers) redirectSignedIn(c *gin.Context) bool {
	s, ok := session.Current(c)
	if !ok {
		return false
	}
	session.SendRedirect(c, models.LandingRoute(s.PrimaryRole()))
	return true
}
