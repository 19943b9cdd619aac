package models

import "time"

// Post represents a social media post
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"index"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RankedPost is a post annotated with read-time engagement aggregates.
type RankedPost struct {
	Post            `gorm:"embedded"`
	LikesCount      int64 `json:"likes_count"`
	CommentsCount   int64 `json:"comments_count"`
	EngagementScore int64 `json:"engagement_score"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UserStats aggregates per-user counters computed at read time.
type UserStats struct {
	PostsCount            int64 `json:"posts_count"`
	TotalLikesReceived    int64 `json:"total_likes_received"`
	TotalCommentsReceived int64 `json:"total_comments_received"`
	FollowersCount        int64 `json:"followers_count"`
	FollowingCount        int64 `json:"following_count"`
}
