package service

import (
	"fmt"
	"sync"
	"testing"

	"socialnet/backend/internal/database"
	"socialnet/backend/internal/friends"
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	users := store.NewUsers(db)
	relationships := store.NewRelationshipStore(db)
	activities := store.NewActivityLog(db)
	resolver := friends.NewResolver(relationships, users)
	return New(users, relationships, activities, resolver), db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func listActivities(t *testing.T, s *Service, userID uint) []models.UserActivity {
	t.Helper()

	activities, err := s.ListActivities(userID)
	require.NoError(t, err)
	return activities
}

func TestSend(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSent, request.Status)

	activities := listActivities(t, s, alice.ID)
	require.Len(t, activities, 1)
	require.Equal(t, models.ActivityFriendRequestSent, activities[0].ActivityType)
	require.Equal(t, "Sent a friend request to bob", activities[0].Description)

	// No activity lands on the addressee's feed.
	require.Empty(t, listActivities(t, s, bob.ID))
}

func TestSendSelf(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")

	_, err := s.Send(alice.ID, alice.ID)
	require.ErrorIs(t, err, store.ErrSelfRequest)

	var count int64
	require.NoError(t, db.Model(&models.FriendRequest{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, listActivities(t, s, alice.ID))
}

func TestSendDuplicate(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	first, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = s.Send(alice.ID, bob.ID)
	require.ErrorIs(t, err, store.ErrDuplicateRequest)

	// The first request is unaffected and only one activity was logged.
	var got models.FriendRequest
	require.NoError(t, db.First(&got, first.ID).Error)
	require.Equal(t, models.StatusSent, got.Status)
	require.Len(t, listActivities(t, s, alice.ID), 1)
}

func TestSendUnknownTarget(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")

	_, err := s.Send(alice.ID, alice.ID+1)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAccept(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)

	updated, err := s.Accept(bob.ID, request.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, updated.Status)

	activities := listActivities(t, s, bob.ID)
	require.Len(t, activities, 1)
	require.Equal(t, models.ActivityFriendRequestAccepted, activities[0].ActivityType)
	require.Equal(t, "Accepted a friend request from alice", activities[0].Description)
}

func TestAcceptAuthorization(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)

	// Neither the sender nor a third party can resolve the request.
	_, err = s.Accept(alice.ID, request.ID)
	require.ErrorIs(t, err, ErrNotAddressee)
	_, err = s.Accept(carol.ID, request.ID)
	require.ErrorIs(t, err, ErrNotAddressee)

	// The request is untouched and no activity was logged for them.
	var got models.FriendRequest
	require.NoError(t, db.First(&got, request.ID).Error)
	require.Equal(t, models.StatusSent, got.Status)
	require.Empty(t, listActivities(t, s, carol.ID))
}

func TestAcceptTerminal(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.Accept(bob.ID, request.ID)
	require.NoError(t, err)

	// Resolved exactly once; later attempts by the addressee conflict.
	_, err = s.Accept(bob.ID, request.ID)
	require.ErrorIs(t, err, store.ErrAlreadyResolved)
	_, err = s.Reject(bob.ID, request.ID)
	require.ErrorIs(t, err, store.ErrAlreadyResolved)

	// A non-addressee still gets the authorization answer, not the
	// resolved one.
	_, err = s.Accept(alice.ID, request.ID)
	require.ErrorIs(t, err, ErrNotAddressee)

	require.Len(t, listActivities(t, s, bob.ID), 1)
}

func TestAcceptUnknownRequest(t *testing.T) {
	s, db := newTestService(t)
	bob := createUser(t, db, "bob")

	_, err := s.Accept(bob.ID, 42)
	require.ErrorIs(t, err, store.ErrRequestNotFound)
}

func TestReject(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)

	updated, err := s.Reject(bob.ID, request.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, updated.Status)

	activities := listActivities(t, s, bob.ID)
	require.Len(t, activities, 1)
	require.Equal(t, models.ActivityFriendRequestRejected, activities[0].ActivityType)
	require.Equal(t, "Rejected a friend request from alice", activities[0].Description)

	// Rejected pairs never become friends.
	friendsOfAlice, err := s.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Empty(t, friendsOfAlice)
}

func TestAcceptMakesFriendsSymmetric(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.Accept(bob.ID, request.ID)
	require.NoError(t, err)

	friendsOfAlice, err := s.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfAlice, 1)
	require.Equal(t, bob.ID, friendsOfAlice[0].ID)

	friendsOfBob, err := s.ListFriends(bob.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfBob, 1)
	require.Equal(t, alice.ID, friendsOfBob[0].ID)
}

func TestBlock(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	block, err := s.Block(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, block.BlockerID)
	require.Equal(t, bob.ID, block.BlockedID)

	_, err = s.Block(alice.ID, bob.ID)
	require.ErrorIs(t, err, store.ErrDuplicateBlock)

	_, err = s.Block(alice.ID, bob.ID+1)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestBlockDoesNotCascade(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.Accept(bob.ID, request.ID)
	require.NoError(t, err)

	_, err = s.Block(alice.ID, bob.ID)
	require.NoError(t, err)

	// Blocking leaves the existing friendship in place.
	friendsOfAlice, err := s.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfAlice, 1)
	require.Equal(t, bob.ID, friendsOfAlice[0].ID)
}

func TestConcurrentAccepts(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	request, err := s.Send(alice.ID, bob.ID)
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Accept(bob.ID, request.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, store.ErrAlreadyResolved)
	}
	require.Equal(t, 1, successes)

	// Exactly one activity row despite the race.
	activities := listActivities(t, s, bob.ID)
	require.Len(t, activities, 1)
	require.Equal(t, models.ActivityFriendRequestAccepted, activities[0].ActivityType)
}

func TestConcurrentSends(t *testing.T) {
	s, db := newTestService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Send(alice.ID, bob.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, store.ErrDuplicateRequest)
	}
	require.Equal(t, 1, successes)

	var count int64
	require.NoError(t, db.Model(&models.FriendRequest{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
