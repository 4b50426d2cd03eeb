// Package service implements the friend-request and blocking state machine:
// validation, status transitions and activity emission.
package service

import (
	"errors"
	"fmt"
	"log"

	"socialnet/backend/internal/friends"
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/store"
)

// ErrNotAddressee is returned when an actor tries to resolve a request that
// was not addressed to them. Only the addressee may accept or reject,
// regardless of the request's status.
var ErrNotAddressee = errors.New("only the addressee can resolve a friend request")

// Service orchestrates relationship mutations. It holds no state between
// calls; every operation takes the acting user explicitly.
type Service struct {
	users         *store.Users
	relationships *store.RelationshipStore
	activities    *store.ActivityLog
	resolver      *friends.Resolver
}

func New(users *store.Users, relationships *store.RelationshipStore, activities *store.ActivityLog, resolver *friends.Resolver) *Service {
	return &Service{
		users:         users,
		relationships: relationships,
		activities:    activities,
		resolver:      resolver,
	}
}

// Send creates a friend request from actor to target and logs the activity.
func (s *Service) Send(actor, target uint) (*models.FriendRequest, error) {
	if actor == target {
		return nil, store.ErrSelfRequest
	}

	targetUser, err := s.users.GetByID(target)
	if err != nil {
		return nil, err
	}

	request, err := s.relationships.CreateFriendRequest(actor, target)
	if err != nil {
		return nil, err
	}

	s.record(actor, models.ActivityFriendRequestSent,
		fmt.Sprintf("Sent a friend request to %s", targetUser.Username))

	return request, nil
}

// Accept resolves a sent request addressed to actor as accepted.
func (s *Service) Accept(actor, requestID uint) (*models.FriendRequest, error) {
	return s.resolve(actor, requestID, models.StatusAccepted)
}

// Reject resolves a sent request addressed to actor as rejected.
func (s *Service) Reject(actor, requestID uint) (*models.FriendRequest, error) {
	return s.resolve(actor, requestID, models.StatusRejected)
}

func (s *Service) resolve(actor, requestID uint, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	request, err := s.relationships.GetFriendRequest(requestID)
	if err != nil {
		return nil, err
	}

	// Authorization comes before the status precondition: a caller who is
	// not the addressee always gets the same answer, whatever the status.
	if request.ToUserID != actor {
		return nil, ErrNotAddressee
	}

	updated, err := s.relationships.SetStatus(requestID, status)
	if err != nil {
		return nil, err
	}

	activityType := models.ActivityFriendRequestAccepted
	verb := "Accepted"
	if status == models.StatusRejected {
		activityType = models.ActivityFriendRequestRejected
		verb = "Rejected"
	}
	s.record(actor, activityType,
		fmt.Sprintf("%s a friend request from %s", verb, s.username(updated.FromUserID)))

	return updated, nil
}

// Block records that actor has blocked target. Existing requests and
// friendships are left untouched.
func (s *Service) Block(actor, target uint) (*models.Block, error) {
	if _, err := s.users.GetByID(target); err != nil {
		return nil, err
	}
	return s.relationships.CreateBlock(actor, target)
}

// ListFriends returns the users the given user is friends with.
func (s *Service) ListFriends(userID uint) ([]models.User, error) {
	return s.resolver.FriendsOf(userID)
}

// ListPending returns unresolved requests addressed to the given user.
func (s *Service) ListPending(userID uint) ([]models.FriendRequest, error) {
	return s.relationships.ListPending(userID)
}

// ListActivities returns the given user's activity feed, newest first.
func (s *Service) ListActivities(userID uint) ([]models.UserActivity, error) {
	return s.activities.ListFor(userID)
}

// record appends an activity entry. Logging is observability, not business
// state: a failed append never fails the transition that triggered it.
func (s *Service) record(userID uint, activityType models.ActivityType, description string) {
	if err := s.activities.Record(userID, activityType, description); err != nil {
		log.Printf("Failed to record %s activity for user %d: %v", activityType, userID, err)
	}
}

func (s *Service) username(userID uint) string {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	return user.Username
}
