package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID               `json:"id" db:"user_id"`
	Email          string                  `json:"email" db:"email"`
	FullName       string                  `json:"full_name" db:"full_name"`
	AvatarURL      *string                 `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio            *string                 `json:"bio,omitempty" db:"bio"`
	Notification   NotificationPreferences `json:"notification" db:"notification_prefs"`
	FollowersCount int64                   `json:"followers_count" db:"followers_count"`
	FollowingCount int64                   `json:"following_count" db:"following_count"`
	CreatedAt      time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time              `json:"-" db:"deleted_at"`
}

// UserSummary is the public projection used in follower lists and likes.
type UserSummary struct {
	ID        uuid.UUID `json:"id" db:"user_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Since     time.Time `json:"since" db:"since"`
}

// NotificationPreferences gates which notification types a user receives.
type NotificationPreferences struct {
	Like    bool `json:"like"`
	Follow  bool `json:"follow"`
	Comment bool `json:"comment"`
	Custom  bool `json:"custom"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Like: true, Follow: true, Comment: true, Custom: true}
}

// Allows reports whether a notification of type t may be created for the
// owner of these preferences. Types without a preference are always allowed.
func (p NotificationPreferences) Allows(t NotificationType) bool {
	switch t {
	case NotifLike:
		return p.Like
	case NotifFollow:
		return p.Follow
	case NotifComment, NotifMention:
		return p.Comment
	case NotifCustom:
		return p.Custom
	default:
		return true
	}
}

func (p NotificationPreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *NotificationPreferences) Scan(src interface{}) error {
	if src == nil {
		*p = DefaultNotificationPreferences()
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("notification_prefs: unsupported column type")
	}

	prefs := DefaultNotificationPreferences()
	if err := json.Unmarshal(data, &prefs); err != nil {
		return err
	}
	*p = prefs
	return nil
}

type UpdateNotificationPreferencesInput struct {
	Like    *bool `json:"like,omitempty"`
	Follow  *bool `json:"follow,omitempty"`
	Comment *bool `json:"comment,omitempty"`
	Custom  *bool `json:"custom,omitempty"`
}

func (in UpdateNotificationPreferencesInput) Apply(p NotificationPreferences) NotificationPreferences {
	if in.Like != nil {
		p.Like = *in.Like
	}
	if in.Follow != nil {
		p.Follow = *in.Follow
	}
	if in.Comment != nil {
		p.Comment = *in.Comment
	}
	if in.Custom != nil {
		p.Custom = *in.Custom
	}
	return p
}
