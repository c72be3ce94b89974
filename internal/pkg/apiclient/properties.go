package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

type propertiesResponse struct {
	Properties []models.Property `json:"properties"`
}

type propertyResponse struct {
	Property models.Property `json:"property"`
}

type notificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

func (c *Client) ListProperties(ctx context.Context, q models.PropertyQuery) ([]models.Property, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	if q.City != "" {
		query.Set("city", q.City)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var out propertiesResponse
	if err := c.do(ctx, http.MethodGet, "/properties", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Properties, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var out propertyResponse
	err := c.do(ctx, http.MethodGet, "/properties/"+url.PathEscape(id), nil, nil, &out)
	if IsNotFound(err) {
		return nil, fmt.Errorf("property %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out.Property, nil
}

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var out notificationsResponse
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}
