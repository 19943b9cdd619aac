package services

import (
	"time"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// FeedService computes the personalized feed and the global trending list.
type FeedService interface {
	// GetFeed returns posts from followed accounts plus the viewer's own,
	// ranked by recency then engagement, paginated by offset. Results are
	// recomputed on every call; ordering is deterministic for a fixed
	// database snapshot but carries no stability guarantee across
	// concurrent writes.
	GetFeed(viewerID uint, limit, offset int) ([]models.RankedPost, error)

	// GetTrending returns the top posts of the last 24 hours with positive
	// engagement, highest score first.
	GetTrending(limit int) ([]models.RankedPost, error)
}

// trendingWindow restricts trending candidates to recent posts.
const trendingWindow = 24 * time.Hour

type feedService struct {
	postRepo   repositories.PostRepository
	followRepo repositories.FollowRepository
	logger     zerolog.Logger
}

func NewFeedService(
	postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository,
	logger zerolog.Logger,
) FeedService {
	return &feedService{
		postRepo:   postRepo,
		followRepo: followRepo,
		logger:     logger,
	}
}

func (s *feedService) GetFeed(viewerID uint, limit, offset int) ([]models.RankedPost, error) {
	if viewerID == 0 {
		return nil, ErrAuthenticationRequired
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	followingIDs, err := s.followRepo.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(followingIDs, viewerID)

	return s.postRepo.GetRankedFeed(authorIDs, limit, offset)
}

func (s *feedService) GetTrending(limit int) ([]models.RankedPost, error) {
	if limit <= 0 {
		limit = 10
	}
	since := time.Now().Add(-trendingWindow)
	return s.postRepo.GetTrending(since, limit)
}
