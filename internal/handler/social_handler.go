package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"socialnet/backend/internal/models"
	"socialnet/backend/internal/service"
	"socialnet/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// SendFriendRequestInput defines the structure for sending a friend request.
type SendFriendRequestInput struct {
	ToUser uint `json:"to_user" binding:"required" example:"2"`
}

// BlockUserInput defines the structure for blocking a user.
type BlockUserInput struct {
	Blocked uint `json:"blocked" binding:"required" example:"2"`
}

// FriendRequestResponse defines the structure for a friend request.
type FriendRequestResponse struct {
	ID           uint      `json:"id" example:"1"`
	FromUser     uint      `json:"from_user" example:"1"`
	ToUser       uint      `json:"to_user" example:"2"`
	Status       string    `json:"status" example:"sent"`
	CreatedAt    time.Time `json:"created_at"`
	FromUsername string    `json:"from_username,omitempty" example:"testuser"`
}

// BlockResponse defines the structure for a block record.
type BlockResponse struct {
	ID        uint      `json:"id" example:"1"`
	Blocker   uint      `json:"blocker" example:"1"`
	Blocked   uint      `json:"blocked" example:"2"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityResponse defines the structure for an activity feed entry.
type ActivityResponse struct {
	ID           uint      `json:"id" example:"1"`
	ActivityType string    `json:"activity_type" example:"friend_request_sent"`
	Description  string    `json:"description" example:"Sent a friend request to testuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// endregion

// SocialHandler serves the friend-request, blocking and feed endpoints.
type SocialHandler struct {
	service *service.Service
}

func NewSocialHandler(service *service.Service) *SocialHandler {
	return &SocialHandler{service: service}
}

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request from the caller to another user.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendFriendRequestInput true "Request Target"
// @Success      201  {object}  FriendRequestResponse
// @Failure      400  {object}  ErrorResponse "Self request or duplicate request"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /send-friend-request [post]
func (h *SocialHandler) SendFriendRequest(c *gin.Context) {
	actorID, _ := c.Get("userID")

	var input SendFriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.service.Send(actorID.(uint), input.ToUser)
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buildFriendRequestResponse(*request))
}

// AcceptFriendRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request addressed to the caller.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friend Request ID"
// @Success      200  {object}  FriendRequestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Caller is not the addressee"
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      409  {object}  ErrorResponse "Request already resolved"
// @Router       /accept-friend-request/{id} [patch]
func (h *SocialHandler) AcceptFriendRequest(c *gin.Context) {
	h.resolveFriendRequest(c, h.service.Accept)
}

// RejectFriendRequest godoc
// @Summary      Reject friend request
// @Description  Rejects a pending friend request addressed to the caller.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friend Request ID"
// @Success      200  {object}  FriendRequestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Caller is not the addressee"
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      409  {object}  ErrorResponse "Request already resolved"
// @Router       /reject-friend-request/{id} [patch]
func (h *SocialHandler) RejectFriendRequest(c *gin.Context) {
	h.resolveFriendRequest(c, h.service.Reject)
}

func (h *SocialHandler) resolveFriendRequest(c *gin.Context, resolve func(actor, requestID uint) (*models.FriendRequest, error)) {
	actorID, _ := c.Get("userID")

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := resolve(actorID.(uint), uint(requestID))
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildFriendRequestResponse(*request))
}

// BlockUser godoc
// @Summary      Block a user
// @Description  Blocks another user. Existing requests and friendships are left untouched.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BlockUserInput true "Block Target"
// @Success      201  {object}  BlockResponse
// @Failure      400  {object}  ErrorResponse "Duplicate block"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /block-user [post]
func (h *SocialHandler) BlockUser(c *gin.Context) {
	actorID, _ := c.Get("userID")

	var input BlockUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := h.service.Block(actorID.(uint), input.Blocked)
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusCreated, BlockResponse{
		ID:        block.ID,
		Blocker:   block.BlockerID,
		Blocked:   block.BlockedID,
		CreatedAt: block.CreatedAt,
	})
}

// GetFriends godoc
// @Summary      List friends
// @Description  Lists the users the caller is friends with. May be served from a short-lived cache.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [get]
func (h *SocialHandler) GetFriends(c *gin.Context) {
	actorID, _ := c.Get("userID")

	friends, err := h.service.ListFriends(actorID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friendResponses := make([]PublicUserResponse, 0, len(friends))
	for _, friend := range friends {
		friendResponses = append(friendResponses, buildPublicUserResponse(friend))
	}

	c.JSON(http.StatusOK, friendResponses)
}

// GetPendingRequests godoc
// @Summary      List pending friend requests
// @Description  Lists unresolved friend requests addressed to the caller, newest first.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /pending-requests [get]
func (h *SocialHandler) GetPendingRequests(c *gin.Context) {
	actorID, _ := c.Get("userID")

	requests, err := h.service.ListPending(actorID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending requests"})
		return
	}

	requestResponses := make([]FriendRequestResponse, 0, len(requests))
	for _, request := range requests {
		requestResponses = append(requestResponses, buildFriendRequestResponse(request))
	}

	c.JSON(http.StatusOK, requestResponses)
}

// GetActivities godoc
// @Summary      List activities
// @Description  Lists the caller's activity feed, newest first.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ActivityResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /activities [get]
func (h *SocialHandler) GetActivities(c *gin.Context) {
	actorID, _ := c.Get("userID")

	activities, err := h.service.ListActivities(actorID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
		return
	}

	activityResponses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		activityResponses = append(activityResponses, ActivityResponse{
			ID:           activity.ID,
			ActivityType: string(activity.ActivityType),
			Description:  activity.Description,
			CreatedAt:    activity.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, activityResponses)
}

// respondSocialError maps service and store errors to HTTP responses.
// Authorization failures stay deliberately generic.
func respondSocialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSelfRequest),
		errors.Is(err, store.ErrDuplicateRequest),
		errors.Is(err, store.ErrDuplicateBlock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAddressee):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func buildFriendRequestResponse(request models.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:           request.ID,
		FromUser:     request.FromUserID,
		ToUser:       request.ToUserID,
		Status:       string(request.Status),
		CreatedAt:    request.CreatedAt,
		FromUsername: request.FromUser.Username,
	}
}
