package handler_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/handler"
	"inkwell/internal/logger"
	"inkwell/internal/mocks"
	"inkwell/internal/pkg/i18n"
	"inkwell/internal/service/interaction"
)

// The action label is recorded after the request buffer has been reused by
// later requests, so it must not share memory with the route parameter.
func TestInteractionHandler_Apply_MetricLabels(t *testing.T) {
	userID := uuid.New()
	blogID := uuid.New()

	catalog, err := i18n.Load("en")
	require.NoError(t, err)

	interactions := new(mocks.InteractionRepository)
	blogs := new(mocks.BlogRepository)
	users := new(mocks.UserRepository)
	notifier := new(mocks.NotificationService)

	users.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID, FullName: "Reader"}, nil)
	blogs.On("GetByID", mock.Anything, blogID).Return(&domain.Blog{ID: blogID, AuthorID: userID, Title: "Own post"}, nil)
	interactions.On("RecordView", mock.Anything, blogID, userID).Return(domain.ToggleOutcome{Active: true, Count: 1}, nil)
	interactions.On("ToggleLike", mock.Anything, blogID, userID).Return(domain.ToggleOutcome{Active: true, Changed: true, Count: 1}, nil)
	interactions.On("ToggleBookmark", mock.Anything, blogID, userID).Return(domain.ToggleOutcome{Changed: true}, nil)

	svc := interaction.NewService(interactions, blogs, users, notifier, catalog, nil, logger.Nop())
	app := newApp(userID)
	app.Post("/interactions/:action/:targetId", handler.NewInteractionHandler(svc).Apply)

	paths := []string{"view", "LIKE", "Bookmark", "like", "VIEW", "bookmark"}
	for i := 0; i < 5; i++ {
		for _, action := range paths {
			req := httptest.NewRequest("POST", "/interactions/"+action+"/"+blogID.String(), nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode, action)
		}
	}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "inkwell_interaction_applied_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "action" {
					continue
				}
				assert.Contains(t, domain.Actions, domain.Action(lp.GetValue()), "unexpected action label %q", lp.GetValue())
				seen[lp.GetValue()] = true
			}
		}
	}
	assert.True(t, seen["view"])
	assert.True(t, seen["like"])
	assert.True(t, seen["bookmark"])

	interactions.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}
