package services

import (
	"strings"
	"testing"

	"github.com/feedpulse/backend/internal/mailer"
	"github.com/feedpulse/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEventLikeIsDeduplicated(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "hello world")

	first, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "liked your post", first.Message)

	second, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 1, env.notificationCount(t))
}

func TestRecordEventSeparateKeysDoNotCollapse(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	carol := env.createUser(t, "carol", "carol@example.com")
	post := env.createPost(t, alice.ID, "hello world")

	_, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)
	assert.True(t, created)

	// Different sender, same everything else: a new row.
	_, created, err = env.notifications.RecordEvent(alice.ID, &carol.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)
	assert.True(t, created)

	// Follow events key without a target post.
	_, created, err = env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeFollow, nil, "")
	require.NoError(t, err)
	assert.True(t, created)

	assert.EqualValues(t, 3, env.notificationCount(t))
}

func TestRecordEventNormalizesStaleMessage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "hello world")

	first, _, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)

	// Simulate a stored message that drifted from the computed default.
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("id = ?", first.ID).
		UpdateColumn("message", "bob liked your photo").Error)

	updated, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "liked your post", updated.Message)
	assert.EqualValues(t, 1, env.notificationCount(t))

	reloaded, err := env.notificationRepo.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "liked your post", reloaded.Message)
	assert.WithinDuration(t, first.CreatedAt, reloaded.CreatedAt, 0)
}

func TestRecordEventCommentAlwaysCreates(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "hello world")

	for i := 0; i < 2; i++ {
		_, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeComment, &post.ID, "")
		require.NoError(t, err)
		assert.True(t, created)
	}
	assert.EqualValues(t, 2, env.notificationCount(t))
}

func TestRecordEventUnknownKindUsesRawKind(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	notification, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, "waved", nil, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "waved", notification.Message)

	require.Len(t, env.queue.tasks, 1)
	task := env.queue.tasks[0].payload.(mailer.EmailTask)
	assert.Equal(t, "New notification", task.Subject)
}

func TestRecordEventEnqueuesEmailOnceOnCreation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	post := env.createPost(t, alice.ID, "hello world")

	_, _, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)

	require.Len(t, env.queue.tasks, 1)
	assert.Equal(t, mailer.TaskSendEmail, env.queue.tasks[0].name)
	task := env.queue.tasks[0].payload.(mailer.EmailTask)
	assert.Equal(t, "alice@example.com", task.To)
	assert.Equal(t, "New like", task.Subject)
	assert.Equal(t, "bob liked your post. hello world", task.Body)

	// The dedup path never re-sends.
	_, _, err = env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)
	assert.Len(t, env.queue.tasks, 1)
}

func TestRecordEventSkipsEmailWithoutAddress(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "")
	bob := env.createUser(t, "bob", "bob@example.com")

	_, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeFollow, nil, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, env.queue.tasks)
}

func TestRecordEventTruncatesLongPostSnippet(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	content := strings.Repeat("a", 100)
	post := env.createPost(t, alice.ID, content)

	_, _, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeLike, &post.ID, "")
	require.NoError(t, err)

	require.Len(t, env.queue.tasks, 1)
	task := env.queue.tasks[0].payload.(mailer.EmailTask)
	assert.Equal(t, "bob liked your post. "+strings.Repeat("a", 80)+"...", task.Body)
}

func TestRecordEventSurvivesQueueFailure(t *testing.T) {
	env := newTestEnv(t)
	env.queue.fail = true
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	_, created, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeFollow, nil, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.EqualValues(t, 1, env.notificationCount(t))
}

func TestMarkAsReadIsRecipientOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	notification, _, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeFollow, nil, "")
	require.NoError(t, err)

	_, err = env.notifications.MarkAsRead(bob.ID, notification.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	marked, err := env.notifications.MarkAsRead(alice.ID, notification.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	count, err := env.notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkAllAsReadScopesToRecipient(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")
	carol := env.createUser(t, "carol", "carol@example.com")

	_, _, err := env.notifications.RecordEvent(alice.ID, &bob.ID, models.NotificationTypeFollow, nil, "")
	require.NoError(t, err)
	_, _, err = env.notifications.RecordEvent(carol.ID, &bob.ID, models.NotificationTypeFollow, nil, "")
	require.NoError(t, err)

	require.NoError(t, env.notifications.MarkAllAsRead(alice.ID))

	aliceUnread, err := env.notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, aliceUnread)

	carolUnread, err := env.notifications.UnreadCount(carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, carolUnread)
}

func TestNotificationOperationsRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.notifications.List(0, false, 10, 0)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = env.notifications.UnreadCount(0)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = env.notifications.MarkAsRead(0, 1)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	assert.ErrorIs(t, env.notifications.MarkAllAsRead(0), ErrAuthenticationRequired)
}
