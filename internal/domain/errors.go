package domain

import "errors"

var (
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrCannotFollowSelf  = errors.New("cannot follow yourself")
	ErrMissingTarget     = errors.New("missing target")

	ErrUserNotFound         = errors.New("user not found")
	ErrBlogNotFound         = errors.New("blog not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrForbidden    = errors.New("insufficient permissions for this operation")
	ErrInvalidInput = errors.New("invalid input")
)
