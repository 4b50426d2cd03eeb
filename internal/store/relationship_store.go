package store

import (
	"errors"

	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

// RelationshipStore persists FriendRequest and Block records. The ordered-pair
// uniqueness invariants live in the schema (composite unique indexes), so
// create-if-absent is atomic even under racing writers.
type RelationshipStore struct {
	db *gorm.DB
}

func NewRelationshipStore(db *gorm.DB) *RelationshipStore {
	return &RelationshipStore{db: db}
}

// CreateFriendRequest creates a new request in the sent state. It fails with
// ErrSelfRequest when from == to and ErrDuplicateRequest when a request for
// the ordered pair already exists in any status.
func (s *RelationshipStore) CreateFriendRequest(from, to uint) (*models.FriendRequest, error) {
	if from == to {
		return nil, ErrSelfRequest
	}

	request := models.FriendRequest{
		FromUserID: from,
		ToUserID:   to,
		Status:     models.StatusSent,
	}
	if err := s.db.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	return &request, nil
}

// GetFriendRequest fetches a request by ID.
func (s *RelationshipStore) GetFriendRequest(id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := s.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// SetStatus moves a sent request into a terminal status. The transition is a
// compare-and-set on status inside a transaction: of any number of racing
// callers exactly one observes success, the rest get ErrAlreadyResolved.
func (s *RelationshipStore) SetStatus(id uint, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	var request models.FriendRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", id, models.StatusSent).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Either the request never existed or it is already terminal.
			var count int64
			if err := tx.Model(&models.FriendRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRequestNotFound
			}
			return ErrAlreadyResolved
		}

		return tx.First(&request, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// CreateBlock records that blocker has blocked blocked. Fails with
// ErrDuplicateBlock when the ordered pair already exists.
func (s *RelationshipStore) CreateBlock(blocker, blocked uint) (*models.Block, error) {
	block := models.Block{
		BlockerID: blocker,
		BlockedID: blocked,
	}
	if err := s.db.Create(&block).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateBlock
		}
		return nil, err
	}
	return &block, nil
}

// ListAcceptedFrom returns accepted requests sent by the given user.
func (s *RelationshipStore) ListAcceptedFrom(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.db.Where("from_user_id = ? AND status = ?", userID, models.StatusAccepted).Find(&requests).Error
	return requests, err
}

// ListAcceptedTo returns accepted requests received by the given user.
func (s *RelationshipStore) ListAcceptedTo(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.db.Where("to_user_id = ? AND status = ?", userID, models.StatusAccepted).Find(&requests).Error
	return requests, err
}

// ListPending returns unresolved requests received by the given user,
// newest first, with the sender preloaded.
func (s *RelationshipStore) ListPending(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.db.Preload("FromUser").
		Where("to_user_id = ? AND status = ?", userID, models.StatusSent).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}
