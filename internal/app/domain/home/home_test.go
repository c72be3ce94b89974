package home

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/domain/properties"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

type MockListings struct {
	mock.Mock
}

func (m *MockListings) Search(ctx context.Context, q models.PropertyQuery) ([]models.Property, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockListings) Get(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func serve(t *testing.T, listings properties.Service, target string) *goquery.Document {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	NewHomeHandlers(domain.NewBaseHandler(zap.NewNop()), listings).ShowHomePage(c)

	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestShowHomePage(t *testing.T) {
	t.Run("signed out visitors see listings and the offline nav", func(t *testing.T) {
		listings := new(MockListings)
		listings.On("Search", mock.Anything, models.PropertyQuery{Search: "loft", Limit: properties.DefaultLimit}).
			Return([]models.Property{{ID: "p1", Title: "Harbour loft"}}, nil)

		doc := serve(t, listings, "/?q=loft")
		assert.Equal(t, 1, doc.Find("#listings article.property-card").Length())
		assert.Equal(t, 1, doc.Find("nav a[href='/auth/signin']").Length())
		listings.AssertExpectations(t)
	})

	t.Run("backend failure shows a banner instead of the grid", func(t *testing.T) {
		listings := new(MockListings)
		listings.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

		doc := serve(t, listings, "/")
		assert.Equal(t, properties.MsgListingsUnavailable, doc.Find("#listings [role='alert']").Text())
	})
}
