package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anonto42/friend-circle/backend/internal/auth"
	"github.com/anonto42/friend-circle/backend/internal/repositories"
	"github.com/anonto42/friend-circle/backend/internal/router"
	"github.com/anonto42/friend-circle/backend/pkg/config"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
}

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	store *repositories.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:           "test-secret",
		AccessTokenTTL:      time.Minute,
		RefreshTokenTTL:     time.Hour,
		RefreshCookieName:   "refresh_token",
		CookieSameSite:      http.SameSiteLaxMode,
		FriendRequestLimit:  3,
		FriendRequestWindow: time.Minute,
	}
	store := repositories.NewMemoryStore()
	e := echo.New()
	router.SetupRoutes(e, router.Dependencies{
		Config:      cfg,
		Logger:      zap.NewNop(),
		Users:       store,
		Friendships: store,
		Transactor:  store,
		Activity:    store,
		Revocations: auth.NewMemoryRevocationStore(),
	})
	return &testServer{t: t, e: e, store: store}
}

func (s *testServer) do(method, path, token, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

// signup registers and logs in a user, returning the user id and access token.
func (s *testServer) signup(email, firstName string) (uint, string) {
	s.t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"s3cure-Passphrase","password2":"s3cure-Passphrase","first_name":%q,"last_name":"Tester"}`, email, firstName)
	rec, env := s.do(http.MethodPost, "/register/", "", body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(s.t, "S", env.Status)

	rec, env = s.do(http.MethodPost, "/login/", "", fmt.Sprintf(`{"email":%q,"password":"s3cure-Passphrase"}`, email))
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(s.t, env.Token)

	user, err := s.store.GetUserByEmail(context.Background(), strings.ToLower(email))
	require.NoError(s.t, err)
	return user.ID, env.Token
}

func TestFriendRequestExampleFlow(t *testing.T) {
	s := newTestServer(t)
	_, tokenA := s.signup("a@example.com", "Alice")
	idB, tokenB := s.signup("b@example.com", "Bob")
	idC, _ := s.signup("c@example.com", "Carol")
	idD, _ := s.signup("d@example.com", "Dave")
	idE, _ := s.signup("e@example.com", "Erin")

	send := func(token string, to uint) (*httptest.ResponseRecorder, envelope) {
		return s.do(http.MethodPost, "/send-request/", token, fmt.Sprintf(`{"to_user":%d}`, to))
	}

	rec, env := send(tokenA, idB)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Request has been sent successfully", env.Message)

	rec, env = send(tokenA, idB)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "F", env.Status)
	require.Contains(t, string(env.Errors), "Friend request already sent.")

	for _, to := range []uint{idC, idD} {
		rec, _ = send(tokenA, to)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env = send(tokenA, idE)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, string(env.Errors), "3 friend requests per minute")

	// B sees the pending request and accepts it
	rec, env = s.do(http.MethodGet, "/request-pending/", tokenB, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []struct {
		ID       uint   `json:"id"`
		Status   string `json:"status"`
		FromUser string `json:"from_user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	require.Equal(t, "a@example.com", pending[0].FromUser)
	require.Equal(t, "pending", pending[0].Status)

	path := fmt.Sprintf("/respond-request/%d/", pending[0].ID)

	// only the recipient may respond, whatever the status
	for _, status := range []string{"accepted", "nonsense"} {
		rec, _ = s.do(http.MethodPut, path, tokenA, fmt.Sprintf(`{"status":%q}`, status))
		require.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec, env = s.do(http.MethodPut, path, tokenB, `{"status":"pending"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, string(env.Errors), `"status"`)

	rec, env = s.do(http.MethodPut, path, tokenB, `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Friend request has been updated.", env.Message)

	rec, _ = s.do(http.MethodPut, "/respond-request/9999/", tokenB, `{"status":"accepted"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(http.MethodGet, "/friend-list/", tokenA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []struct {
		ID             uint `json:"id"`
		FollowersCount int  `json:"followers_count"`
		RequestCount   int  `json:"request_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &friends))
	require.Len(t, friends, 1)
	require.Equal(t, idB, friends[0].ID)
	require.Equal(t, 1, friends[0].FollowersCount)
	require.Equal(t, 0, friends[0].RequestCount)

	rec, env = s.do(http.MethodGet, "/friend-list/", tokenB, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, string(env.Data))
}

func TestRegisterAndLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup("Foo@x.com", "Foo")

	rec, env := s.do(http.MethodPost, "/register/", "", `{"email":"foo@x.com","password":"s3cure-Passphrase","password2":"s3cure-Passphrase"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User registration failed.", env.Message)
	require.JSONEq(t, `{"email":["A user with that email already exists."]}`, string(env.Errors))

	rec, env = s.do(http.MethodPost, "/register/", "", `{"email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, string(env.Errors), `"email"`)
	require.Contains(t, string(env.Errors), `"password2"`)

	rec, env = s.do(http.MethodPost, "/login/", "", `{"email":"foo@x.com","password":"wrong-password"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Failed to login.", env.Message)
	require.JSONEq(t, `"Invalid credentials."`, string(env.Errors))

	rec, _ = s.do(http.MethodGet, "/friend-list/", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginCookiesRefreshAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.signup("user@example.com", "User")

	rec, env := s.do(http.MethodPost, "/login/", "", `{"email":"user@example.com","password":"s3cure-Passphrase"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User has been logged in successfully", env.Message)
	accessToken := env.Token

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "refresh_token")
	require.Contains(t, cookies, "access_token_expiry")
	require.True(t, cookies["refresh_token"].HttpOnly)

	rec, refreshed := s.do(http.MethodPost, "/token/refresh/", "", "", cookies["refresh_token"])
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, refreshed.Token)

	rec, env = s.do(http.MethodGet, "/logout/", accessToken, "", cookies["refresh_token"])
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User has been logged out successfully.", env.Message)
	for _, c := range rec.Result().Cookies() {
		require.Empty(t, c.Value, c.Name)
		require.Negative(t, c.MaxAge, c.Name)
	}

	// both the access token and the refresh cookie are revoked
	rec, _ = s.do(http.MethodGet, "/friend-list/", accessToken, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(http.MethodGet, "/friend-list/", refreshed.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodPost, "/token/refresh/", "", "", cookies["refresh_token"])
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup("searcher@example.com", "Searcher")
	s.signup("mary@example.com", "Mary")
	s.signup("marion@example.com", "Marion")

	rec, env := s.do(http.MethodGet, "/search/?q=MARY@example.com", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	type searchPage struct {
		Count      int64   `json:"count"`
		Next       *string `json:"next"`
		Previous   *string `json:"previous"`
		Page       int     `json:"page"`
		TotalPages int     `json:"total_pages"`
		Results    []struct {
			Email string `json:"email"`
		} `json:"results"`
	}
	var page searchPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.EqualValues(t, 1, page.Count)
	require.Equal(t, "mary@example.com", page.Results[0].Email)
	require.Nil(t, page.Next)
	require.Nil(t, page.Previous)

	rec, env = s.do(http.MethodGet, "/search/?q=mar&page_size=1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = searchPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 1, page.Page)
	require.NotNil(t, page.Next)
	require.Equal(t, "http://example.com/search/?page=2&page_size=1&q=mar", *page.Next)
	require.Nil(t, page.Previous)

	rec, env = s.do(http.MethodGet, "/search/?q=mar&page_size=1&page=2", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = searchPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.EqualValues(t, 2, page.Count)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	require.Equal(t, "marion@example.com", page.Results[0].Email)
	require.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	require.Equal(t, "http://example.com/search/?page_size=1&q=mar", *page.Previous)

	// a page far past the end is empty rather than an error
	rec, env = s.do(http.MethodGet, "/search/?q=mar&page=9223372036854775807", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page = searchPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.EqualValues(t, 2, page.Count)
	require.Equal(t, 1, page.TotalPages)
	require.Empty(t, page.Results)
	require.Nil(t, page.Next)
}
