package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CookieStorage keeps values as cookies in an http.CookieJar scoped to the
// API base URL. Sharing the jar with the HTTP client means a credential set
// by the server on login is visible here without any extra bookkeeping.
//
// Remove writes a past-dated cookie, which is the only way to erase a
// cookie-style credential without a server round trip.
type CookieStorage struct {
	jar  http.CookieJar
	base *url.URL
}

// NewCookieStorage builds a storage over the given jar for cookies belonging
// to baseURL.
func NewCookieStorage(jar http.CookieJar, baseURL string) (*CookieStorage, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &CookieStorage{jar: jar, base: u}, nil
}

func (c *CookieStorage) Read(_ context.Context, key string) ([]byte, error) {
	for _, cookie := range c.jar.Cookies(c.base) {
		if cookie.Name == key && cookie.Value != "" {
			return []byte(cookie.Value), nil
		}
	}
	return nil, nil
}

func (c *CookieStorage) Write(_ context.Context, key string, value []byte) error {
	c.jar.SetCookies(c.base, []*http.Cookie{{
		Name:  key,
		Value: string(value),
		Path:  "/",
	}})
	return nil
}

func (c *CookieStorage) Remove(_ context.Context, key string) error {
	c.jar.SetCookies(c.base, []*http.Cookie{{
		Name:    key,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	}})
	return nil
}
