package config

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	Storage                 string
	PostgresURL             string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string
	FirebaseCredentialsPath string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RefreshCookieName string
	CookieDomain      string
	CookieSameSite    http.SameSite
	CookieSecure      bool

	FriendRequestLimit  int
	FriendRequestWindow time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		Storage:                 strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "friendcircle"),
		RedisURL:                getEnv("REDIS_URL", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),

		RefreshCookieName: getEnv("AUTH_COOKIE_REFRESH", "refresh_token"),
		CookieDomain:      getEnv("TOKEN_COOKIE_DOMAIN", ""),
		CookieSameSite:    getSameSite("COOKIE_SAMESITE", http.SameSiteLaxMode),
		CookieSecure:      getBool("COOKIE_SECURE", false),

		FriendRequestLimit:  getInt("FRIEND_REQUEST_LIMIT", 3),
		FriendRequestWindow: getDuration("FRIEND_REQUEST_WINDOW", time.Minute),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getSameSite(key string, def http.SameSite) http.SameSite {
	switch strings.ToLower(os.Getenv(key)) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		var cleaned []string
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
