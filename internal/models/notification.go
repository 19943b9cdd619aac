package models

import (
	"fmt"
	"time"
)

// Notification kinds. Like and follow events collapse repeat occurrences of
// the same (recipient, sender, type, post) into a single row; comment and
// mention events always create a new row.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeMention = "mention"
)

// Notification represents a user notification
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	SenderID    *uint     `json:"sender_id,omitempty" gorm:"index"` // nil for system events
	Type        string    `json:"type" gorm:"size:30;index"`
	PostID      *uint     `json:"post_id,omitempty"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	DedupKey    *string   `json:"-" gorm:"uniqueIndex;size:120"` // set only for deduplicated types
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// IsDedupType reports whether repeat events of this type collapse into one row.
func IsDedupType(notificationType string) bool {
	return notificationType == NotificationTypeLike || notificationType == NotificationTypeFollow
}

// DedupKeyFor builds the uniqueness key for a deduplicated notification event.
// A zero sender or post contributes a 0 segment, so system events and
// targetless events still key consistently.
func DedupKeyFor(notificationType string, recipientID uint, senderID *uint, postID *uint) string {
	var sender, post uint
	if senderID != nil {
		sender = *senderID
	}
	if postID != nil {
		post = *postID
	}
	return fmt.Sprintf("%s:%d:%d:%d", notificationType, recipientID, sender, post)
}
