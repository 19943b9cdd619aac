package services

import (
	"errors"
	"regexp"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// mentionPattern extracts @handle references from comment text.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]{2,50})`)

// PostService holds the business rules for posts, likes and comments.
type PostService interface {
	CreatePost(authorID uint, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(actorID, postID uint, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(actorID, postID uint) error
	DeleteUserPosts(actorID, targetUserID uint) (int64, error)
	ListPosts(search string, limit, offset int) ([]models.RankedPost, error)
	GetPost(postID uint) (*models.RankedPost, error)
	GetUserPosts(userID uint, limit, offset int) ([]models.RankedPost, error)
	UserStats(userID uint) (*models.UserStats, error)

	ToggleLike(userID, postID uint) (bool, error)
	LikesForPost(postID uint) ([]models.Like, error)

	CreateComment(authorID, postID uint, content string) (*models.Comment, error)
	UpdateComment(actorID, commentID uint, content string) (*models.Comment, error)
	DeleteComment(actorID, commentID uint) error
	CommentsForPost(postID uint) ([]models.Comment, error)
}

type postService struct {
	postRepo      repositories.PostRepository
	likeRepo      repositories.LikeRepository
	commentRepo   repositories.CommentRepository
	userRepo      repositories.UserRepository
	followRepo    repositories.FollowRepository
	notifications NotificationService
	logger        zerolog.Logger
}

func NewPostService(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	notifications NotificationService,
	logger zerolog.Logger,
) PostService {
	return &postService{
		postRepo:      postRepo,
		likeRepo:      likeRepo,
		commentRepo:   commentRepo,
		userRepo:      userRepo,
		followRepo:    followRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *postService) CreatePost(authorID uint, req models.CreatePostRequest) (*models.Post, error) {
	if authorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	post := &models.Post{
		AuthorID: authorID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	if err := s.postRepo.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) UpdatePost(actorID, postID uint, req models.UpdatePostRequest) (*models.Post, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if post.AuthorID != actorID {
		return nil, ErrPermissionDenied
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if err := s.postRepo.UpdatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its likes, comments and notifications.
// Allowed for the author or a privileged account.
func (s *postService) DeletePost(actorID, postID uint) error {
	if actorID == 0 {
		return ErrAuthenticationRequired
	}
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return translateNotFound(err)
	}
	if post.AuthorID != actorID {
		actor, err := s.userRepo.GetUserByID(actorID)
		if err != nil {
			return translateNotFound(err)
		}
		if !actor.IsAdmin {
			return ErrPermissionDenied
		}
	}
	return s.postRepo.DeletePost(postID)
}

// DeleteUserPosts removes all posts of one account. Allowed for the account
// itself or a privileged account.
func (s *postService) DeleteUserPosts(actorID, targetUserID uint) (int64, error) {
	if actorID == 0 {
		return 0, ErrAuthenticationRequired
	}
	if actorID != targetUserID {
		actor, err := s.userRepo.GetUserByID(actorID)
		if err != nil {
			return 0, translateNotFound(err)
		}
		if !actor.IsAdmin {
			return 0, ErrPermissionDenied
		}
	}
	return s.postRepo.DeletePostsByAuthor(targetUserID)
}

func (s *postService) ListPosts(search string, limit, offset int) ([]models.RankedPost, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListPosts(search, limit, offset)
}

func (s *postService) GetPost(postID uint) (*models.RankedPost, error) {
	post, err := s.postRepo.GetPostWithEngagement(postID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return post, nil
}

func (s *postService) GetUserPosts(userID uint, limit, offset int) ([]models.RankedPost, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.GetPostsByAuthor(userID, limit, offset)
}

// UserStats aggregates per-user counters at read time.
func (s *postService) UserStats(userID uint) (*models.UserStats, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return nil, translateNotFound(err)
	}
	stats := &models.UserStats{}
	var err error
	if stats.PostsCount, err = s.postRepo.CountByAuthor(userID); err != nil {
		return nil, err
	}
	if stats.TotalLikesReceived, err = s.postRepo.CountLikesReceived(userID); err != nil {
		return nil, err
	}
	if stats.TotalCommentsReceived, err = s.postRepo.CountCommentsReceived(userID); err != nil {
		return nil, err
	}
	if stats.FollowersCount, err = s.followRepo.GetFollowersCount(userID); err != nil {
		return nil, err
	}
	if stats.FollowingCount, err = s.followRepo.GetFollowingCount(userID); err != nil {
		return nil, err
	}
	return stats, nil
}

// ToggleLike likes the post when no like exists, unlikes it otherwise.
// Returns true when the post ends up liked. A lost insert race is treated as
// "already liked" so concurrent toggles converge on a single row.
func (s *postService) ToggleLike(userID, postID uint) (bool, error) {
	if userID == 0 {
		return false, ErrAuthenticationRequired
	}
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return false, translateNotFound(err)
	}

	if _, err := s.likeRepo.GetLike(postID, userID); err == nil {
		if err := s.likeRepo.DeleteLike(postID, userID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	like := &models.Like{PostID: postID, UserID: userID}
	if err := s.likeRepo.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}

	if post.AuthorID != userID {
		if _, _, err := s.notifications.RecordEvent(post.AuthorID, &userID, models.NotificationTypeLike, &postID, ""); err != nil {
			s.logger.Error().Err(err).Uint("post_id", postID).Uint("user_id", userID).Msg("failed to record like notification")
		}
	}

	return true, nil
}

func (s *postService) LikesForPost(postID uint) ([]models.Like, error) {
	if _, err := s.postRepo.GetPostByID(postID); err != nil {
		return nil, translateNotFound(err)
	}
	return s.likeRepo.GetLikesByPostID(postID)
}

func (s *postService) CreateComment(authorID, postID uint, content string) (*models.Comment, error) {
	if authorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.commentRepo.CreateComment(comment); err != nil {
		return nil, err
	}

	if post.AuthorID != authorID {
		if _, _, err := s.notifications.RecordEvent(post.AuthorID, &authorID, models.NotificationTypeComment, &postID, ""); err != nil {
			s.logger.Error().Err(err).Uint("post_id", postID).Msg("failed to record comment notification")
		}
	}

	s.notifyMentions(authorID, post, content)

	return comment, nil
}

// notifyMentions records a mention notification for every @handle referenced
// in the comment, skipping the commenter and the post author (the latter is
// already notified of the comment itself).
func (s *postService) notifyMentions(commenterID uint, post *models.Post, content string) {
	seen := make(map[string]bool)
	for _, match := range mentionPattern.FindAllStringSubmatch(content, -1) {
		handle := match[1]
		if seen[handle] {
			continue
		}
		seen[handle] = true

		mentioned, err := s.userRepo.GetUserByUsername(handle)
		if err != nil {
			continue
		}
		if mentioned.ID == commenterID || mentioned.ID == post.AuthorID {
			continue
		}
		if _, _, err := s.notifications.RecordEvent(mentioned.ID, &commenterID, models.NotificationTypeMention, &post.ID, ""); err != nil {
			s.logger.Error().Err(err).Uint("mentioned_id", mentioned.ID).Msg("failed to record mention notification")
		}
	}
}

func (s *postService) UpdateComment(actorID, commentID uint, content string) (*models.Comment, error) {
	if actorID == 0 {
		return nil, ErrAuthenticationRequired
	}
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if comment.AuthorID != actorID {
		return nil, ErrPermissionDenied
	}
	comment.Content = content
	if err := s.commentRepo.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *postService) DeleteComment(actorID, commentID uint) error {
	if actorID == 0 {
		return ErrAuthenticationRequired
	}
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return translateNotFound(err)
	}
	if comment.AuthorID != actorID {
		return ErrPermissionDenied
	}
	return s.commentRepo.DeleteComment(commentID)
}

func (s *postService) CommentsForPost(postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetPostByID(postID); err != nil {
		return nil, translateNotFound(err)
	}
	return s.commentRepo.GetCommentsByPostID(postID)
}
