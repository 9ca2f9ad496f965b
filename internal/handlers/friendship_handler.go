package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/friend-circle/backend/internal/middleware"
	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendships *services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendships *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/send-request/", h.SendFriendRequest, requireAuth)
	g.PUT("/respond-request/:id/", h.RespondFriendRequest, requireAuth)
	g.GET("/friend-list/", h.GetFriends, requireAuth)
	g.GET("/request-pending/", h.GetPendingFriendRequests, requireAuth)
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	var req models.SendFriendRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if _, err := h.friendships.Send(c.Request().Context(), user.ID, req.ToUser); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Request has been sent successfully")
}

// RespondFriendRequest accepts or rejects a request addressed to the current user.
func (h *FriendshipHandler) RespondFriendRequest(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}

	var req models.RespondFriendRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	user := middleware.CurrentUser(c)
	status := models.FriendRequestStatus(req.Status)
	if err := h.friendships.Respond(c.Request().Context(), user.ID, uint(id), status); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Friend request has been updated.")
}

// GetFriends lists users whose requests from the current user were accepted.
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	user := middleware.CurrentUser(c)
	friends, err := h.friendships.ListFriends(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return okData(c, models.UsersToResponse(friends))
}

// GetPendingFriendRequests lists pending requests received by the current user.
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	user := middleware.CurrentUser(c)
	requests, err := h.friendships.ListPendingIncoming(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return okData(c, models.FriendRequestsToResponse(requests))
}
