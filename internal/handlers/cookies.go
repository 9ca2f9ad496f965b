package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const accessExpiryCookie = "access_token_expiry"

// CookieSettings controls the session cookies set on login.
type CookieSettings struct {
	RefreshName string
	Domain      string
	SameSite    http.SameSite
	Secure      bool
}

func (s CookieSettings) setRefresh(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     s.RefreshName,
		Value:    token,
		Path:     "/",
		Domain:   s.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	})
}

// setAccessExpiry stores the access token expiry (unix seconds) in a cookie scripts
// can read, expiring together with the access token.
func (s CookieSettings) setAccessExpiry(c echo.Context, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     accessExpiryCookie,
		Value:    strconv.FormatInt(expires.Unix(), 10),
		Path:     "/",
		Domain:   s.Domain,
		Expires:  expires,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	})
}

// clearAll expires every cookie the client sent.
func (s CookieSettings) clearAll(c echo.Context) {
	for _, cookie := range c.Cookies() {
		c.SetCookie(&http.Cookie{
			Name:     cookie.Name,
			Value:    "",
			Path:     "/",
			Domain:   s.Domain,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Secure:   s.Secure,
			SameSite: s.SameSite,
		})
	}
}
