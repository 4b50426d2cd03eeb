// Package friends derives the symmetric friends relation from directed
// accepted friend requests.
package friends

import (
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/store"
)

// Resolver computes friends lists. Read-only; it never mutates the store.
type Resolver struct {
	relationships *store.RelationshipStore
	users         *store.Users
}

func NewResolver(relationships *store.RelationshipStore, users *store.Users) *Resolver {
	return &Resolver{relationships: relationships, users: users}
}

// FriendsOf returns the users that userID is friends with: everyone on the
// other end of an accepted request in either direction, deduplicated.
func (r *Resolver) FriendsOf(userID uint) ([]models.User, error) {
	sent, err := r.relationships.ListAcceptedFrom(userID)
	if err != nil {
		return nil, err
	}
	received, err := r.relationships.ListAcceptedTo(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(sent)+len(received))
	ids := make([]uint, 0, len(sent)+len(received))
	for _, request := range sent {
		if !seen[request.ToUserID] {
			seen[request.ToUserID] = true
			ids = append(ids, request.ToUserID)
		}
	}
	for _, request := range received {
		if !seen[request.FromUserID] {
			seen[request.FromUserID] = true
			ids = append(ids, request.FromUserID)
		}
	}

	return r.users.GetByIDs(ids)
}
