package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

var (
	errMalformedAuth   = errors.New("auth response is missing token or user")
	errMalformedVerify = errors.New("verify response is valid but carries no user")
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// VerifyResponse is the backend's verdict on the ambient credentials.
type VerifyResponse struct {
	User  models.User `json:"user"`
	Valid bool        `json:"valid"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.User.ID == "" {
		return nil, errMalformedAuth
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.User.ID == "" {
		return nil, errMalformedAuth
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Valid && out.User.ID == "" {
		return nil, errMalformedVerify
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
