package repositories

import (
	"time"

	"github.com/feedpulse/backend/internal/models"
	"gorm.io/gorm"
)

// engagementExpr is the weighted engagement score computed at read time:
// likes weigh most, comments also count.
const engagementExpr = "COUNT(DISTINCT likes.id) * 3 + COUNT(DISTINCT comments.id) * 2"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostWithEngagement(id uint) (*models.RankedPost, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	DeletePostsByAuthor(authorID uint) (int64, error)
	ListPosts(search string, limit, offset int) ([]models.RankedPost, error)
	GetPostsByAuthor(authorID uint, limit, offset int) ([]models.RankedPost, error)
	GetRankedFeed(authorIDs []uint, limit, offset int) ([]models.RankedPost, error)
	GetTrending(since time.Time, limit int) ([]models.RankedPost, error)
	CountByAuthor(authorID uint) (int64, error)
	CountLikesReceived(authorID uint) (int64, error)
	CountCommentsReceived(authorID uint) (int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostWithEngagement retrieves a single post with its engagement
// aggregates pre-computed.
func (r *PostgresPostRepository) GetPostWithEngagement(id uint) (*models.RankedPost, error) {
	var post models.RankedPost
	err := r.rankedQuery().
		Where("posts.id = ?", id).
		Limit(1).
		Scan(&post).Error
	if err != nil {
		return nil, err
	}
	if post.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &post, nil
}

func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost removes a post and everything hanging off it (likes, comments,
// notifications referencing it) in one transaction.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// DeletePostsByAuthor removes all posts by one author, cascading like
// DeletePost. Returns the number of posts deleted.
func (r *PostgresPostRepository) DeletePostsByAuthor(authorID uint) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", authorID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) == 0 {
			return nil
		}
		if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", postIDs).Delete(&models.Post{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// ListPosts returns the newest posts, optionally filtered by a content
// substring, with engagement aggregates.
func (r *PostgresPostRepository) ListPosts(search string, limit, offset int) ([]models.RankedPost, error) {
	q := r.rankedQuery()
	if search != "" {
		q = q.Where("posts.content LIKE ?", "%"+search+"%")
	}
	var posts []models.RankedPost
	err := q.Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Scan(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetPostsByAuthor(authorID uint, limit, offset int) ([]models.RankedPost, error) {
	var posts []models.RankedPost
	err := r.rankedQuery().
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Scan(&posts).Error
	return posts, err
}

// GetRankedFeed returns posts authored by the given accounts ordered by
// recency first, then engagement score, then likes, then comments. The final
// id tiebreak keeps the ordering deterministic for identical rows.
func (r *PostgresPostRepository) GetRankedFeed(authorIDs []uint, limit, offset int) ([]models.RankedPost, error) {
	if len(authorIDs) == 0 {
		return []models.RankedPost{}, nil
	}
	var posts []models.RankedPost
	err := r.rankedQuery().
		Where("posts.author_id IN ?", authorIDs).
		Order("posts.created_at DESC, engagement_score DESC, likes_count DESC, comments_count DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Scan(&posts).Error
	if posts == nil {
		posts = []models.RankedPost{}
	}
	return posts, err
}

// GetTrending returns posts created at or after `since` with a positive
// engagement score, highest score first.
func (r *PostgresPostRepository) GetTrending(since time.Time, limit int) ([]models.RankedPost, error) {
	var posts []models.RankedPost
	err := r.rankedQuery().
		Where("posts.created_at >= ?", since).
		Having(engagementExpr + " > 0").
		Order("engagement_score DESC, posts.id DESC").
		Limit(limit).
		Scan(&posts).Error
	if posts == nil {
		posts = []models.RankedPost{}
	}
	return posts, err
}

func (r *PostgresPostRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) CountLikesReceived(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) CountCommentsReceived(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// rankedQuery is the shared base query annotating posts with read-time
// engagement aggregates.
func (r *PostgresPostRepository) rankedQuery() *gorm.DB {
	return r.db.Model(&models.Post{}).
		Select("posts.*, COUNT(DISTINCT likes.id) AS likes_count, COUNT(DISTINCT comments.id) AS comments_count, " + engagementExpr + " AS engagement_score").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Joins("LEFT JOIN comments ON comments.post_id = posts.id").
		Group("posts.id")
}
