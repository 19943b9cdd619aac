package services

import (
	"errors"

	"github.com/feedpulse/backend/internal/mailer"
	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/queue"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NotificationService records notification events and exposes read-state
// operations for recipients.
type NotificationService interface {
	// RecordEvent creates or refreshes a notification for a domain event and
	// reports whether a new row was created. Like and follow events with the
	// same (recipient, sender, type, post) collapse into one row; comment and
	// mention events always create a new one. Callers are expected to skip
	// events where sender == recipient.
	RecordEvent(recipientID uint, senderID *uint, notificationType string, postID *uint, message string) (*models.Notification, bool, error)

	List(viewerID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	UnreadCount(viewerID uint) (int64, error)
	MarkAsRead(viewerID, notificationID uint) (*models.Notification, error)
	MarkAllAsRead(viewerID uint) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	postRepo         repositories.PostRepository
	queue            queue.Queue
	logger           zerolog.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	q queue.Queue,
	logger zerolog.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		postRepo:         postRepo,
		queue:            q,
		logger:           logger,
	}
}

// snippetLimit caps the post excerpt embedded in email bodies.
const snippetLimit = 80

func (s *notificationService) RecordEvent(recipientID uint, senderID *uint, notificationType string, postID *uint, message string) (*models.Notification, bool, error) {
	if message == "" {
		message = DefaultMessage(notificationType)
	}

	if !models.IsDedupType(notificationType) {
		notification := &models.Notification{
			RecipientID: recipientID,
			SenderID:    senderID,
			Type:        notificationType,
			PostID:      postID,
			Message:     message,
		}
		if err := s.notificationRepo.CreateNotification(notification); err != nil {
			return nil, false, err
		}
		s.fanOutEmail(notification)
		return notification, true, nil
	}

	key := models.DedupKeyFor(notificationType, recipientID, senderID, postID)

	existing, err := s.notificationRepo.GetByDedupKey(key)
	if err == nil {
		return s.normalize(existing, message)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notificationType,
		PostID:      postID,
		Message:     message,
		DedupKey:    &key,
	}
	err = s.notificationRepo.CreateNotification(notification)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the insert race; converge on the surviving row.
		existing, err := s.notificationRepo.GetByDedupKey(key)
		if err != nil {
			return nil, false, err
		}
		return s.normalize(existing, message)
	}
	if err != nil {
		return nil, false, err
	}

	s.fanOutEmail(notification)
	return notification, true, nil
}

// normalize refreshes a deduplicated row's message text when the computed
// message has drifted from the stored one. The creation timestamp is left
// untouched.
func (s *notificationService) normalize(existing *models.Notification, message string) (*models.Notification, bool, error) {
	if existing.Message != message {
		if err := s.notificationRepo.UpdateMessage(existing.ID, message); err != nil {
			return nil, false, err
		}
		existing.Message = message
	}
	return existing, false, nil
}

// fanOutEmail enqueues the notification email for a newly created row.
// Enqueue failures are logged and swallowed: the asynchronous side effect
// never rolls back the notification or the triggering domain action.
func (s *notificationService) fanOutEmail(notification *models.Notification) {
	recipient, err := s.userRepo.GetUserByID(notification.RecipientID)
	if err != nil {
		s.logger.Error().Err(err).Uint("recipient_id", notification.RecipientID).Msg("notification recipient lookup failed, skipping email")
		return
	}
	if recipient.Email == "" {
		return
	}

	senderName := "Someone"
	if notification.SenderID != nil {
		if sender, err := s.userRepo.GetUserByID(*notification.SenderID); err == nil {
			senderName = sender.DisplayName()
		}
	}

	body := senderName + " " + notification.Message + "."
	if notification.PostID != nil {
		if post, err := s.postRepo.GetPostByID(*notification.PostID); err == nil && post.Content != "" {
			body += " " + truncate(post.Content, snippetLimit)
		}
	}

	task := mailer.EmailTask{
		To:      recipient.Email,
		Subject: SubjectFor(notification.Type),
		Body:    body,
	}
	if err := s.queue.Enqueue(mailer.TaskSendEmail, task); err != nil {
		s.logger.Error().Err(err).Str("to", recipient.Email).Msg("failed to enqueue notification email")
	}
}

func (s *notificationService) List(viewerID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	if viewerID == 0 {
		return nil, 0, ErrAuthenticationRequired
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.GetByRecipientID(viewerID, unreadOnly, limit, offset)
}

func (s *notificationService) UnreadCount(viewerID uint) (int64, error) {
	if viewerID == 0 {
		return 0, ErrAuthenticationRequired
	}
	return s.notificationRepo.GetUnreadCount(viewerID)
}

func (s *notificationService) MarkAsRead(viewerID, notificationID uint) (*models.Notification, error) {
	if viewerID == 0 {
		return nil, ErrAuthenticationRequired
	}
	notification, err := s.notificationRepo.GetByID(notificationID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if notification.RecipientID != viewerID {
		return nil, ErrPermissionDenied
	}
	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}
	notification.IsRead = true
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(viewerID uint) error {
	if viewerID == 0 {
		return ErrAuthenticationRequired
	}
	return s.notificationRepo.MarkAllAsRead(viewerID)
}

// DefaultMessage derives the notification message for a kind when the caller
// supplies none.
func DefaultMessage(notificationType string) string {
	switch notificationType {
	case models.NotificationTypeLike:
		return "liked your post"
	case models.NotificationTypeComment:
		return "commented on your post"
	case models.NotificationTypeFollow:
		return "started following you"
	case models.NotificationTypeMention:
		return "mentioned you"
	default:
		return notificationType
	}
}

// SubjectFor picks the email subject line for a notification kind.
func SubjectFor(notificationType string) string {
	switch notificationType {
	case models.NotificationTypeLike:
		return "New like"
	case models.NotificationTypeComment:
		return "New comment"
	case models.NotificationTypeFollow:
		return "New follower"
	case models.NotificationTypeMention:
		return "New mention"
	default:
		return "New notification"
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
