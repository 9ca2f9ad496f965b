package handlers

import (
	"strconv"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterUserRoutes registers user directory routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/search/", h.SearchUsers, requireAuth)
}

type searchPage struct {
	Count      int64                 `json:"count"`
	Next       *string               `json:"next"`
	Previous   *string               `json:"previous"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Results    []models.UserResponse `json:"results"`
}

// SearchUsers finds active users by exact email or partial first/last name.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", services.DefaultPageSize)

	result, err := h.users.Search(c.Request().Context(), c.QueryParam("q"), page, pageSize)
	if err != nil {
		return err
	}

	body := searchPage{
		Count:      result.Count,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		Results:    models.UsersToResponse(result.Results),
	}
	if result.Page < result.TotalPages {
		body.Next = pageLink(c, result.Page+1)
	}
	if result.Page > 1 {
		body.Previous = pageLink(c, result.Page-1)
	}
	return okData(c, body)
}

// pageLink rebuilds the request URL pointing at another page. The first page carries no
// page parameter.
func pageLink(c echo.Context, page int) *string {
	u := *c.Request().URL
	u.Scheme = c.Scheme()
	u.Host = c.Request().Host
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

func queryInt(c echo.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return n
}
