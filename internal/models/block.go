package models

import "gorm.io/gorm"

// Block represents a one-directional block of one user by another.
// Rows are immutable once written; there is no unblock.
type Block struct {
	gorm.Model
	BlockerID uint `gorm:"not null;uniqueIndex:idx_block_pair"`
	BlockedID uint `gorm:"not null;uniqueIndex:idx_block_pair"`

	Blocker User `gorm:"foreignKey:BlockerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Blocked User `gorm:"foreignKey:BlockedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
