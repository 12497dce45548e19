package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID             uuid.UUID        `json:"id" db:"notification_id"`
	RecipientID    uuid.UUID        `json:"recipient" db:"recipient_id"`
	SenderID       uuid.UUID        `json:"sender" db:"sender_id"`
	Type           NotificationType `json:"type" db:"type"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	Target         *Target          `json:"target,omitempty" db:"target"`
	RelatedContent *RelatedContent  `json:"related_content,omitempty" db:"related_content"`
	Link           string           `json:"link" db:"link"`
	IsRead         bool             `json:"is_read" db:"is_read"`
	ReadAt         *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

type NotificationType string

const (
	NotifLike    NotificationType = "like"
	NotifComment NotificationType = "comment"
	NotifMention NotificationType = "mention"
	NotifFollow  NotificationType = "follow"
	NotifBlog    NotificationType = "blog"
	NotifCustom  NotificationType = "custom"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifLike, NotifComment, NotifMention, NotifFollow, NotifBlog, NotifCustom:
		return true
	default:
		return false
	}
}

type TargetType string

const (
	TargetBlog    TargetType = "blog"
	TargetUser    TargetType = "user"
	TargetComment TargetType = "comment"
)

type Target struct {
	ID   uuid.UUID  `json:"id"`
	Type TargetType `json:"type"`
}

type RelatedContent struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NotifyInput carries everything the dispatcher needs to build a Notification.
type NotifyInput struct {
	RecipientID    uuid.UUID
	SenderID       uuid.UUID
	Type           NotificationType
	Target         *Target
	Title          string
	Message        string
	Link           string
	RelatedContent *RelatedContent
}

type NotificationFilter struct {
	IsRead *bool
	Type   *NotificationType
}

func (t *Target) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *Target) Scan(src interface{}) error {
	return scanJSON(src, t)
}

func (r *RelatedContent) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *RelatedContent) Scan(src interface{}) error {
	return scanJSON(src, r)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported json column type")
	}
}
