package comment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/logger"
	"inkwell/internal/mocks"
	"inkwell/internal/pkg/i18n"
	"inkwell/internal/service/comment"
)

type fixture struct {
	comments *mocks.CommentRepository
	blogs    *mocks.BlogRepository
	users    *mocks.UserRepository
	notifier *mocks.NotificationService
	svc      comment.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := i18n.Load("en")
	require.NoError(t, err)

	f := &fixture{
		comments: new(mocks.CommentRepository),
		blogs:    new(mocks.BlogRepository),
		users:    new(mocks.UserRepository),
		notifier: new(mocks.NotificationService),
	}
	f.svc = comment.NewService(f.comments, f.blogs, f.users, catalog, nil, logger.Nop())
	f.svc.SetNotificationService(f.notifier)
	return f
}

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	author := &domain.User{ID: uuid.New(), FullName: "Budi", Notification: domain.DefaultNotificationPreferences()}
	commenter := &domain.User{ID: uuid.New(), FullName: "Citra", Notification: domain.DefaultNotificationPreferences()}
	b := &domain.Blog{ID: uuid.New(), AuthorID: author.ID, Title: "Intro to X", Slug: "intro-to-x"}

	t.Run("Notifies the blog author", func(t *testing.T) {
		f := newFixture(t)
		f.blogs.On("GetByID", ctx, b.ID).Return(b, nil).Once()
		f.comments.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.BlogID == b.ID && c.UserID == commenter.ID && c.Content == "Nice post"
		})).Return(nil).Once()
		f.users.On("GetByID", ctx, commenter.ID).Return(commenter, nil)
		f.users.On("GetByID", ctx, author.ID).Return(author, nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(in domain.NotifyInput) bool {
			return in.RecipientID == author.ID &&
				in.SenderID == commenter.ID &&
				in.Type == domain.NotifComment &&
				in.Title == "Citra commented on your blog"
		})).Return(&domain.Notification{}, nil).Once()

		c, err := f.svc.Create(ctx, b.ID, commenter.ID, domain.CreateCommentInput{Content: "Nice post"})

		require.NoError(t, err)
		assert.Equal(t, "Nice post", c.Content)
		f.notifier.AssertExpectations(t)
	})

	t.Run("Reply notifies the parent author too", func(t *testing.T) {
		f := newFixture(t)
		replier := &domain.User{ID: uuid.New(), FullName: "Dewi", Notification: domain.DefaultNotificationPreferences()}
		parent := &domain.Comment{ID: uuid.New(), BlogID: b.ID, UserID: commenter.ID}

		f.blogs.On("GetByID", ctx, b.ID).Return(b, nil).Once()
		f.comments.On("GetByID", ctx, parent.ID).Return(parent, nil).Once()
		f.comments.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).Return(nil).Once()
		f.users.On("GetByID", ctx, replier.ID).Return(replier, nil)
		f.users.On("GetByID", ctx, author.ID).Return(author, nil)
		f.users.On("GetByID", ctx, commenter.ID).Return(commenter, nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(in domain.NotifyInput) bool {
			return in.RecipientID == author.ID
		})).Return(&domain.Notification{}, nil).Once()
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(in domain.NotifyInput) bool {
			return in.RecipientID == commenter.ID && in.Title == "Dewi replied to your comment"
		})).Return(&domain.Notification{}, nil).Once()

		_, err := f.svc.Create(ctx, b.ID, replier.ID, domain.CreateCommentInput{ParentID: &parent.ID, Content: "Agreed"})

		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
	})

	t.Run("Comment preference off", func(t *testing.T) {
		f := newFixture(t)
		quiet := *author
		quiet.Notification.Comment = false

		f.blogs.On("GetByID", ctx, b.ID).Return(b, nil).Once()
		f.comments.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", ctx, commenter.ID).Return(commenter, nil)
		f.users.On("GetByID", ctx, author.ID).Return(&quiet, nil)

		_, err := f.svc.Create(ctx, b.ID, commenter.ID, domain.CreateCommentInput{Content: "Hi"})

		require.NoError(t, err)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("Parent from another blog", func(t *testing.T) {
		f := newFixture(t)
		parent := &domain.Comment{ID: uuid.New(), BlogID: uuid.New()}

		f.blogs.On("GetByID", ctx, b.ID).Return(b, nil).Once()
		f.comments.On("GetByID", ctx, parent.ID).Return(parent, nil).Once()

		_, err := f.svc.Create(ctx, b.ID, commenter.ID, domain.CreateCommentInput{ParentID: &parent.ID, Content: "Hi"})

		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
		f.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing blog", func(t *testing.T) {
		f := newFixture(t)
		f.blogs.On("GetByID", ctx, b.ID).Return(nil, nil).Once()

		_, err := f.svc.Create(ctx, b.ID, commenter.ID, domain.CreateCommentInput{Content: "Hi"})

		assert.ErrorIs(t, err, domain.ErrBlogNotFound)
	})
}

func TestCommentService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	commentID := uuid.New()

	existing := func() *domain.Comment {
		return &domain.Comment{ID: commentID, UserID: userID, Content: "Original"}
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", ctx, commentID).Return(existing(), nil).Once()
		f.comments.On("Update", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.ID == commentID && c.Content == "Updated"
		})).Return(nil).Once()

		c, err := f.svc.Update(ctx, userID, commentID, domain.UpdateCommentInput{Content: "Updated"})

		assert.NoError(t, err)
		assert.Equal(t, "Updated", c.Content)
		f.comments.AssertExpectations(t)
	})

	t.Run("Permission Error", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", ctx, commentID).Return(existing(), nil).Once()

		c, err := f.svc.Update(ctx, uuid.New(), commentID, domain.UpdateCommentInput{Content: "Updated"})

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, c)
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	c := &domain.Comment{ID: uuid.New(), UserID: userID, BlogID: uuid.New()}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		f.comments.On("Delete", ctx, c.ID).Return(nil).Once()

		assert.NoError(t, f.svc.Delete(ctx, userID, c.ID))
		f.comments.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newFixture(t)
		f.comments.On("GetByID", ctx, c.ID).Return(nil, nil).Once()

		assert.ErrorIs(t, f.svc.Delete(ctx, userID, c.ID), domain.ErrCommentNotFound)
	})
}
