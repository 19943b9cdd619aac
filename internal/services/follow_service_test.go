package services

import (
	"testing"

	"github.com/feedpulse/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowCreatesEdgeAndNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	follow, err := env.follows.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, follow.FollowerID)
	assert.Equal(t, bob.ID, follow.FollowingID)

	following, err := env.follows.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The reverse direction is a separate edge.
	following, err = env.follows.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	notifications, total, err := env.notifications.List(bob.ID, false, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeFollow, notifications[0].Type)
	assert.Equal(t, "started following you", notifications[0].Message)
}

func TestFollowRejectsSelf(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")

	_, err := env.follows.Follow(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.EqualValues(t, 0, env.notificationCount(t))
}

func TestFollowRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	_, err := env.follows.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.follows.Follow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	var count int64
	require.NoError(t, env.db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")

	_, err := env.follows.Follow(alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	bob := env.createUser(t, "bob", "bob@example.com")

	_, err := env.follows.Follow(0, bob.ID)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	assert.ErrorIs(t, env.follows.Unfollow(0, bob.ID), ErrAuthenticationRequired)
}

func TestUnfollowRemovesEdge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	_, err := env.follows.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, env.follows.Unfollow(alice.ID, bob.ID))

	following, err := env.follows.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Follow again after unfollow works and dedups against the old notification.
	_, err = env.follows.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, env.notificationCount(t))
}

func TestUnfollowWithoutEdge(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	assert.ErrorIs(t, env.follows.Unfollow(alice.ID, bob.ID), ErrNotFollowing)
}

func TestFollowersAndFollowingLists(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	carol := env.createUser(t, "carol", "carol@example.com")

	_, err := env.follows.Follow(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.follows.Follow(bob.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.follows.Follow(carol.ID, alice.ID)
	require.NoError(t, err)

	followers, err := env.follows.Followers(carol.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(followers))
	for _, u := range followers {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)

	following, err := env.follows.Following(carol.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].Username)
}

func TestSuggestionsExcludeSelfAndFollowed(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	env.createUser(t, "carol", "carol@example.com")
	env.createUser(t, "dave", "dave@example.com")

	_, err := env.follows.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	suggestions, err := env.follows.Suggestions(alice.ID, 10)
	require.NoError(t, err)
	names := make([]string, 0, len(suggestions))
	for _, u := range suggestions {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"carol", "dave"}, names)
}
