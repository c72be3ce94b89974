package storage

import (
	"context"
	"fmt"

	"github.com/gin-contrib/sessions"
)

// Cookie stores slots in the browser's signed session cookie. Each write
// saves the session immediately, so it must happen before the response body
// is written.
type Cookie struct {
	session sessions.Session
}

func NewCookie(s sessions.Session) *Cookie {
	return &Cookie{session: s}
}

func (c *Cookie) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.session.Get(key).(string)
	return v, ok, nil
}

func (c *Cookie) Set(_ context.Context, key, value string) error {
	c.session.Set(key, value)
	if err := c.session.Save(); err != nil {
		return fmt.Errorf("%w: save cookie: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (c *Cookie) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.session.Delete(k)
	}
	if err := c.session.Save(); err != nil {
		return fmt.Errorf("%w: save cookie: %v", ErrStoreUnavailable, err)
	}
	return nil
}
