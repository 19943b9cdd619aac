package services

import (
	"errors"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// FollowService manages the directed follow graph.
type FollowService interface {
	Follow(followerID, followedID uint) (*models.Follow, error)
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	Followers(userID uint) ([]models.User, error)
	Following(userID uint) ([]models.User, error)
	Suggestions(viewerID uint, limit int) ([]models.User, error)
}

type followService struct {
	followRepo    repositories.FollowRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	logger        zerolog.Logger
}

func NewFollowService(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	logger zerolog.Logger,
) FollowService {
	return &followService{
		followRepo:    followRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Follow creates a follow edge. Insert-first: a concurrent duplicate surfaces
// as a uniqueness violation and is reported as ErrAlreadyFollowing, so racing
// requests converge on a single edge.
func (s *followService) Follow(followerID, followedID uint) (*models.Follow, error) {
	if followerID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if followerID == followedID {
		return nil, ErrSelfFollow
	}
	if _, err := s.userRepo.GetUserByID(followedID); err != nil {
		return nil, translateNotFound(err)
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followedID,
	}
	if err := s.followRepo.CreateFollow(follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	// Defensive: impossible by construction, but never self-notify.
	if followerID != followedID {
		if _, _, err := s.notifications.RecordEvent(followedID, &followerID, models.NotificationTypeFollow, nil, ""); err != nil {
			s.logger.Error().Err(err).Uint("follower_id", followerID).Uint("followed_id", followedID).Msg("failed to record follow notification")
		}
	}

	return follow, nil
}

func (s *followService) Unfollow(followerID, followedID uint) error {
	if followerID == 0 {
		return ErrAuthenticationRequired
	}
	if err := s.followRepo.DeleteFollow(followerID, followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFollowing
		}
		return err
	}
	return nil
}

func (s *followService) IsFollowing(followerID, followedID uint) (bool, error) {
	return s.followRepo.IsFollowing(followerID, followedID)
}

func (s *followService) Followers(userID uint) ([]models.User, error) {
	return s.followRepo.GetFollowers(userID)
}

func (s *followService) Following(userID uint) ([]models.User, error) {
	return s.followRepo.GetFollowing(userID)
}

// Suggestions returns the newest accounts the viewer does not already follow.
func (s *followService) Suggestions(viewerID uint, limit int) ([]models.User, error) {
	if viewerID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if limit <= 0 {
		limit = 5
	}
	followingIDs, err := s.followRepo.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.SuggestUsers(viewerID, followingIDs, limit)
}
