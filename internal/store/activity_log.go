package store

import (
	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

// ActivityLog is an append-only record of user actions.
type ActivityLog struct {
	db *gorm.DB
}

func NewActivityLog(db *gorm.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// Record appends an activity entry for the given user.
func (l *ActivityLog) Record(userID uint, activityType models.ActivityType, description string) error {
	activity := models.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	}
	return l.db.Create(&activity).Error
}

// ListFor returns the given user's activities, newest first. Entries with
// identical timestamps keep insertion order via the ID tie-break.
func (l *ActivityLog) ListFor(userID uint) ([]models.UserActivity, error) {
	var activities []models.UserActivity
	err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&activities).Error
	return activities, err
}
