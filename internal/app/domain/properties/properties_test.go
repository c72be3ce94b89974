package properties

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/pkg/cache"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListProperties(ctx context.Context, q models.PropertyQuery) ([]models.Property, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockBackend) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

var loft = models.Property{ID: "p1", Title: "Harbour loft", City: "Porto", Price: 350000}

func newService(backend Backend) *ServiceImpl {
	return NewService(backend, cache.NewCacheManager(time.Minute, nil), zap.NewNop())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, models.PropertyQuery{Search: "loft", City: "Porto", Limit: DefaultLimit},
		Normalize(models.PropertyQuery{Search: "  loft ", City: " Porto"}))
	assert.Equal(t, MaxLimit, Normalize(models.PropertyQuery{Limit: 10_000}).Limit)
	assert.Equal(t, 5, Normalize(models.PropertyQuery{Limit: 5}).Limit)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("caches per normalized query", func(t *testing.T) {
		backend := new(MockBackend)
		want := models.PropertyQuery{Search: "loft", Limit: DefaultLimit}
		backend.On("ListProperties", mock.Anything, want).Return([]models.Property{loft}, nil).Once()
		s := newService(backend)

		got, err := s.Search(ctx, models.PropertyQuery{Search: "loft"})
		require.NoError(t, err)
		assert.Equal(t, []models.Property{loft}, got)

		got, err = s.Search(ctx, models.PropertyQuery{Search: " loft "})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		backend.AssertExpectations(t)
	})

	t.Run("backend errors are wrapped and retried next time", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("ListProperties", mock.Anything, mock.Anything).Return(nil, errors.New("502")).Once()
		backend.On("ListProperties", mock.Anything, mock.Anything).Return([]models.Property{loft}, nil).Once()
		s := newService(backend)

		_, err := s.Search(ctx, models.PropertyQuery{})
		assert.ErrorContains(t, err, "search properties")

		got, err := s.Search(ctx, models.PropertyQuery{})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("blank id is a bad request", func(t *testing.T) {
		_, err := newService(new(MockBackend)).Get(ctx, " ")
		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("not found passes through", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("GetProperty", mock.Anything, "nope").Return(nil, fmt.Errorf("property nope: %w", models.ErrNotFound))
		_, err := newService(backend).Get(ctx, "nope")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("cached after first load", func(t *testing.T) {
		backend := new(MockBackend)
		p := loft
		backend.On("GetProperty", mock.Anything, "p1").Return(&p, nil).Once()
		s := newService(backend)

		for range 2 {
			got, err := s.Get(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Harbour loft", got.Title)
		}
		backend.AssertExpectations(t)
	})
}

func newRouter(backend Backend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPropertiesHandlers(domain.NewBaseHandler(zap.NewNop()), newService(backend))
	r := gin.New()
	r.GET("/properties", h.SearchFragment)
	r.GET("/properties/:id", h.ShowProperty)
	return r
}

func TestShowProperty(t *testing.T) {
	backend := new(MockBackend)
	p := loft
	backend.On("GetProperty", mock.Anything, "p1").Return(&p, nil)
	backend.On("GetProperty", mock.Anything, "gone").Return(nil, models.ErrNotFound)
	backend.On("GetProperty", mock.Anything, "err").Return(nil, errors.New("timeout"))
	r := newRouter(backend)

	t.Run("renders the detail page", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties/p1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, "Harbour loft - Estate", doc.Find("title").Text())
		assert.Equal(t, "Harbour loft", doc.Find("#property h1").Text())
	})

	t.Run("missing property is a 404 page", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties/gone", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Not found")
	})

	t.Run("backend failure is a 502", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties/err", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), MsgListingsUnavailable)
	})
}

func TestSearchFragment(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListProperties", mock.Anything, mock.Anything).Return([]models.Property{loft}, nil)
	r := newRouter(backend)

	t.Run("htmx gets the grid only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/properties?q=loft", nil)
		req.Header.Set("HX-Request", "true")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/?q=loft", w.Header().Get("HX-Push-Url"))
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, 0, doc.Find("nav").Length())
		assert.Equal(t, 1, doc.Find("#listings article").Length())
	})

	t.Run("plain request goes to the home page", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/properties?q=loft&city=Porto", nil))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?city=Porto&q=loft", w.Header().Get("Location"))
	})
}
