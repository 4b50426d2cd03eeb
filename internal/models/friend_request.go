package models

import "gorm.io/gorm"

// FriendRequestStatus defines the state of a friend request.
type FriendRequestStatus string

const (
	// StatusSent means the request has been created but not yet resolved
	// by the addressee.
	StatusSent FriendRequestStatus = "sent"

	// StatusAccepted and StatusRejected are terminal. A request never
	// leaves either state.
	StatusAccepted FriendRequestStatus = "accepted"
	StatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest represents a directed friend request between two users.
// The (FromUserID, ToUserID) pair is unique regardless of status, so a
// rejected request permanently blocks a resend for the same direction.
type FriendRequest struct {
	gorm.Model
	FromUserID uint                `gorm:"not null;uniqueIndex:idx_friend_request_pair"`
	ToUserID   uint                `gorm:"not null;uniqueIndex:idx_friend_request_pair"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;default:'sent'"`

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
