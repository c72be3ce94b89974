package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
	"github.com/FACorreiaa/estate-templui/internal/pkg/storage"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeBackend answers the auth endpoints for a.b@c / x with token t1.
type fakeBackend struct {
	valid       atomic.Bool
	verifyCalls atomic.Int32
	lastBearer  atomic.Value
	gate        chan struct{}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	user := map[string]any{"_id": "u1", "email": "a@b.com", "firstName": "A", "lastName": "B", "roles": []int{5}}
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body apiclient.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "x" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "t1", "user": user})
	})
	mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if b.gate != nil {
			<-b.gate
		}
		b.verifyCalls.Add(1)
		b.lastBearer.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"valid": b.valid.Load(), "user": user})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestRouter(t *testing.T, backend *fakeBackend, opts ...ProviderOption) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	api := apiclient.New(srv.URL, apiclient.WithTimeout(2*time.Second))
	provider := NewProvider(api, MemoryStores(storage.NewMemory(0)), zap.NewNop(), opts...)

	r := gin.New()
	r.Use(sessions.Sessions("estate_session", cookie.NewStore([]byte(testSecret))))
	r.Use(provider.Middleware())

	page := func(c *gin.Context) {
		name := "anonymous"
		if s, ok := Current(c); ok {
			name = s.Username
		}
		var msgs []string
		for _, toast := range Toasts(c) {
			msgs = append(msgs, string(toast.Kind)+":"+toast.Message)
		}
		c.String(http.StatusOK, name+"|"+strings.Join(msgs, ","))
	}
	r.GET("/", page)
	r.GET(models.RouteSignIn, page)
	r.GET(models.RouteAgentDashboard, page)
	r.POST(models.RouteSignIn, func(c *gin.Context) {
		FromContext(c).Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
		if route, ok := NavigatedTo(c); ok {
			SendRedirect(c, route)
			return
		}
		c.Status(http.StatusUnprocessableEntity)
	})
	r.POST("/auth/logout", func(c *gin.Context) {
		FromContext(c).Logout(c.Request.Context())
		route, _ := NavigatedTo(c)
		SendRedirect(c, route)
	})
	return r
}

// browser replays the latest cookies between requests.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, r *gin.Engine) *browser {
	return &browser{t: t, router: r, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return b.do(req)
}

func (b *browser) post(path, form string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return b.do(req)
}

func TestProvider_LoginThenPageLoad(t *testing.T) {
	backend := &fakeBackend{}
	backend.valid.Store(true)
	b := newBrowser(t, newTestRouter(t, backend))

	w := b.get("/", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous|", w.Body.String())
	assert.Zero(t, backend.verifyCalls.Load(), "nothing persisted, nothing to verify")

	w = b.post(models.RouteSignIn, "email=a@b.com&password=x", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RouteAgentDashboard, w.Header().Get("HX-Redirect"))

	w = b.get(models.RouteAgentDashboard, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A B|success:Welcome back, A B!", w.Body.String())
	assert.EqualValues(t, 1, backend.verifyCalls.Load())
	assert.Equal(t, "Bearer t1", backend.lastBearer.Load())

	w = b.get(models.RouteAgentDashboard, true)
	assert.Equal(t, "A B|", w.Body.String(), "toasts are shown once")
	assert.EqualValues(t, 1, backend.verifyCalls.Load(), "htmx requests do not re-verify")
}

func TestProvider_FailedLoginRerendersWithError(t *testing.T) {
	backend := &fakeBackend{}
	b := newBrowser(t, newTestRouter(t, backend))

	w := b.post(models.RouteSignIn, "email=a@b.com&password=nope", false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = b.get(models.RouteSignIn, false)
	assert.Equal(t, "anonymous|error:"+MsgInvalidCreds, w.Body.String())
}

func TestProvider_InvalidTokenRedirectsToSignIn(t *testing.T) {
	backend := &fakeBackend{}
	backend.valid.Store(true)
	b := newBrowser(t, newTestRouter(t, backend))

	b.post(models.RouteSignIn, "email=a@b.com&password=x", false)
	backend.valid.Store(false)

	w := b.get(models.RouteAgentDashboard, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, models.RouteSignIn, w.Header().Get("Location"))

	w = b.get(models.RouteSignIn, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "anonymous|"))
}

func TestProvider_Logout(t *testing.T) {
	backend := &fakeBackend{}
	backend.valid.Store(true)
	b := newBrowser(t, newTestRouter(t, backend))

	b.post(models.RouteSignIn, "email=a@b.com&password=x", false)
	w := b.post("/auth/logout", "", false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, models.RouteHome, w.Header().Get("Location"))

	w = b.get("/", false)
	assert.Equal(t, "anonymous|success:Welcome back, A B!,success:"+MsgLogoutSuccess, w.Body.String())
}

func TestProvider_BackgroundVerify(t *testing.T) {
	backend := &fakeBackend{gate: make(chan struct{})}
	backend.valid.Store(true)
	b := newBrowser(t, newTestRouter(t, backend, WithBlockingVerify(false)))

	b.post(models.RouteSignIn, "email=a@b.com&password=x", false)
	backend.valid.Store(false)

	w := b.get(models.RouteAgentDashboard, false)
	require.Equal(t, http.StatusOK, w.Code, "the restored session renders before verification")
	assert.True(t, strings.HasPrefix(w.Body.String(), "A B|"))
	close(backend.gate)

	assert.Eventually(t, func() bool {
		return strings.HasPrefix(b.get("/", true).Body.String(), "anonymous|")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFromContextWithoutProviderPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Panics(t, func() { FromContext(c) })

	_, ok := Current(c)
	assert.False(t, ok)
	assert.Nil(t, Toasts(c))
}

func TestSendRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	c.Request.Header.Set("HX-Request", "true")
	SendRedirect(c, "/user/dashboard")
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/user/dashboard", w.Header().Get("HX-Redirect"))

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	SendRedirect(c, "/user/dashboard")
	assert.Equal(t, http.StatusSeeOther, c.Writer.Status())
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/user/dashboard", w.Header().Get("Location"))
}
