package store

import "errors"

// Typed errors returned by the stores. Handlers map these to HTTP statuses;
// nothing above the store layer inspects gorm errors directly.
var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrDuplicateRequest = errors.New("friend request already exists for this pair")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrAlreadyResolved  = errors.New("friend request already resolved")
	ErrDuplicateBlock   = errors.New("user is already blocked")
	ErrUserNotFound     = errors.New("user not found")
)
