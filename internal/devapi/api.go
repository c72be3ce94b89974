// Package devapi is an in-memory stand-in for the estate backend REST API,
// used for local runs and end-to-end tests of the frontend.
package devapi

import (
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
)

const (
	claimsKey         = "devapi.claims"
	minPasswordLength = 6
)

type API struct {
	cfg    Config
	logger *zap.Logger
	tokens *Tokens
	store  *store
}

// New builds the API and, when cfg.Seed is set, loads the demo accounts and
// listings.
func New(cfg Config, logger *zap.Logger) (*API, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{
		cfg:    cfg,
		logger: logger,
		tokens: NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		store:  newStore(),
	}
	if cfg.Seed {
		if err := a.seed(); err != nil {
			return nil, fmt.Errorf("seed dev api: %w", err)
		}
	}
	return a, nil
}

// Handler serves the API under /api.
func (a *API) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/auth/login", a.login)
		api.POST("/auth/register", a.register)
		api.GET("/auth/verify", a.verify)
		api.POST("/auth/logout", a.authenticate(), a.logout)
		api.GET("/properties", a.listProperties)
		api.GET("/properties/:id", a.getProperty)
		api.GET("/notifications", a.authenticate(), a.listNotifications)
	}
	return r
}

func (a *API) login(c *gin.Context) {
	var req apiclient.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	acc, ok := a.store.accountByEmail(req.Email)
	if !ok || !checkPassword(acc.PasswordHash, req.Password) {
		a.logger.Info("Login rejected", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"message": errInvalidCreds.Error()})
		return
	}
	a.respondWithToken(c, http.StatusOK, acc)
}

func (a *API) register(c *gin.Context) {
	var req apiclient.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}
	if problems := validateRegistration(req); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": problems})
		return
	}

	hash, err := hashPassword(req.Password, a.cfg.BcryptCost)
	if err != nil {
		a.logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}
	acc, err := a.store.addAccount(strings.TrimSpace(req.Email), hash,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), models.RoleUser)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		return
	}
	a.logger.Info("Account registered", zap.String("user_id", acc.ID))
	a.respondWithToken(c, http.StatusCreated, acc)
}

// verify answers 200 with valid=false for a token that is expired, revoked
// or forged; only a missing token is a 401.
func (a *API) verify(c *gin.Context) {
	raw, ok := bearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required", "valid": false})
		return
	}
	acc, _, err := a.resolve(raw)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, apiclient.VerifyResponse{User: acc.User, Valid: true})
}

func (a *API) logout(c *gin.Context) {
	claims := c.MustGet(claimsKey).(*Claims)
	a.store.revoke(claims.ID, claims.ExpiresAt.Time, a.tokens.now())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *API) listProperties(c *gin.Context) {
	q := models.PropertyQuery{
		Search: c.Query("q"),
		City:   c.Query("city"),
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive number"})
			return
		}
		q.Limit = n
	}
	c.JSON(http.StatusOK, gin.H{"properties": a.store.searchProperties(q)})
}

func (a *API) getProperty(c *gin.Context) {
	p, ok := a.store.property(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": p})
}

func (a *API) listNotifications(c *gin.Context) {
	claims := c.MustGet(claimsKey).(*Claims)
	list := a.store.notificationsFor(claims.UserID)
	if list == nil {
		list = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// authenticate rejects requests without a live bearer token.
func (a *API) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		_, claims, err := a.resolve(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (a *API) resolve(raw string) (*account, *Claims, error) {
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	if a.store.isRevoked(claims.ID) {
		return nil, nil, fmt.Errorf("token %s revoked", claims.ID)
	}
	acc, ok := a.store.accountByID(claims.UserID)
	if !ok {
		return nil, nil, fmt.Errorf("user %s: %w", claims.UserID, models.ErrNotFound)
	}
	return acc, claims, nil
}

func (a *API) respondWithToken(c *gin.Context, status int, acc *account) {
	token, err := a.tokens.Issue(acc)
	if err != nil {
		a.logger.Error("Failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not sign in"})
		return
	}
	c.JSON(status, apiclient.AuthResponse{AccessToken: token, User: acc.User})
}

func bearer(c *gin.Context) (string, bool) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func validateRegistration(req apiclient.RegisterRequest) []string {
	var problems []string
	if _, err := mail.ParseAddress(req.Email); err != nil {
		problems = append(problems, "email must be a valid address")
	}
	if len(req.Password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(req.FirstName) == "" {
		problems = append(problems, "firstName is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		problems = append(problems, "lastName is required")
	}
	return problems
}
