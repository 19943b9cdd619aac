package services

import (
	"errors"
	"testing"
	"time"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeQueue captures enqueued tasks so tests can assert on email fan-out.
type fakeQueue struct {
	tasks []queuedTask
	fail  bool
}

type queuedTask struct {
	name    string
	payload interface{}
}

func (q *fakeQueue) Enqueue(taskName string, payload interface{}) error {
	if q.fail {
		return errors.New("queue unavailable")
	}
	q.tasks = append(q.tasks, queuedTask{name: taskName, payload: payload})
	return nil
}

type testEnv struct {
	db    *gorm.DB
	queue *fakeQueue

	userRepo         repositories.UserRepository
	postRepo         repositories.PostRepository
	likeRepo         repositories.LikeRepository
	commentRepo      repositories.CommentRepository
	followRepo       repositories.FollowRepository
	notificationRepo repositories.NotificationRepository

	notifications NotificationService
	follows       FollowService
	posts         PostService
	feed          FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	))

	env := &testEnv{
		db:    db,
		queue: &fakeQueue{},
	}
	env.userRepo = repositories.NewPostgresUserRepository(db)
	env.postRepo = repositories.NewPostgresPostRepository(db)
	env.likeRepo = repositories.NewPostgresLikeRepository(db)
	env.commentRepo = repositories.NewPostgresCommentRepository(db)
	env.followRepo = repositories.NewPostgresFollowRepository(db)
	env.notificationRepo = repositories.NewPostgresNotificationRepository(db)

	logger := zerolog.Nop()
	env.notifications = NewNotificationService(env.notificationRepo, env.userRepo, env.postRepo, env.queue, logger)
	env.follows = NewFollowService(env.followRepo, env.userRepo, env.notifications, logger)
	env.posts = NewPostService(env.postRepo, env.likeRepo, env.commentRepo, env.userRepo, env.followRepo, env.notifications, logger)
	env.feed = NewFeedService(env.postRepo, env.followRepo, logger)

	return env
}

func (e *testEnv) createUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email}
	require.NoError(t, e.userRepo.CreateUser(user))
	return user
}

func (e *testEnv) createAdmin(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, IsAdmin: true}
	require.NoError(t, e.userRepo.CreateUser(user))
	return user
}

func (e *testEnv) createPostAt(t *testing.T, authorID uint, content string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Content: content, CreatedAt: createdAt}
	require.NoError(t, e.postRepo.CreatePost(post))
	return post
}

func (e *testEnv) createPost(t *testing.T, authorID uint, content string) *models.Post {
	t.Helper()
	return e.createPostAt(t, authorID, content, time.Now())
}

func (e *testEnv) notificationCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Notification{}).Count(&count).Error)
	return count
}
