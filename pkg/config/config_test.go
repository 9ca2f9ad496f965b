package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE", "ACCESS_TOKEN_TTL", "FRIEND_REQUEST_LIMIT", "FRIEND_REQUEST_WINDOW", "COOKIE_SAMESITE", "COOKIE_SECURE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, StoragePostgres, cfg.Storage)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 3, cfg.FriendRequestLimit)
	require.Equal(t, time.Minute, cfg.FriendRequestWindow)
	require.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE", "Memory")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("FRIEND_REQUEST_LIMIT", "10")
	t.Setenv("FRIEND_REQUEST_WINDOW", "1h")
	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	require.Equal(t, StorageMemory, cfg.Storage)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 10, cfg.FriendRequestLimit)
	require.Equal(t, time.Hour, cfg.FriendRequestWindow)
	require.Equal(t, http.SameSiteNoneMode, cfg.CookieSameSite)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	t.Setenv("FRIEND_REQUEST_LIMIT", "many")
	t.Setenv("COOKIE_SECURE", "maybe")

	require.Equal(t, 15*time.Minute, getDuration("ACCESS_TOKEN_TTL", 15*time.Minute))
	require.Equal(t, 3, getInt("FRIEND_REQUEST_LIMIT", 3))
	require.True(t, getBool("COOKIE_SECURE", true))
}
