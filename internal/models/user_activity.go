package models

import "gorm.io/gorm"

// ActivityType classifies an entry in a user's activity feed.
type ActivityType string

const (
	ActivityFriendRequestSent     ActivityType = "friend_request_sent"
	ActivityFriendRequestAccepted ActivityType = "friend_request_accepted"
	ActivityFriendRequestRejected ActivityType = "friend_request_rejected"
)

// UserActivity is an append-only record of an action taken by a user.
// Rows are never updated or deleted.
type UserActivity struct {
	gorm.Model
	UserID       uint         `gorm:"not null;index"`
	ActivityType ActivityType `gorm:"size:50;not null"`
	Description  string       `gorm:"type:text;not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
