package handler

import (
	"net/http"

	"socialnet/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// UserHandler serves user lookup and search.
type UserHandler struct {
	users *store.Users
}

func NewUserHandler(users *store.Users) *UserHandler {
	return &UserHandler{users: users}
}

// Search godoc
// @Summary      Search for users
// @Description  Searches for users by username or email (case-insensitive substring) with pagination.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for username or email"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /search [get]
func (h *UserHandler) Search(c *gin.Context) {
	page, limit := parsePagination(c)

	users, totalItems, err := h.users.Search(c.Query("q"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	userResponses := make([]PublicUserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, buildPublicUserResponse(user))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(userResponses, totalItems, page, limit))
}
