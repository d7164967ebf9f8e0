package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/webhooks/internal/errors"
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	eventService "github.com/allisson/webhooks/internal/event/service"
	eventMocks "github.com/allisson/webhooks/internal/event/service/mocks"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/subscription/usecase/mocks"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func setupUseCase(t *testing.T) (SubscriptionUseCase, *mocks.MockSubscriptionRepository, *eventMocks.MockEmitter) {
	t.Helper()
	repo := &mocks.MockSubscriptionRepository{}
	emitter := eventMocks.NewMockEmitter(t)
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return NewSubscriptionUseCase(repo, eventService.NewCatalog(), emitter), repo, emitter
}

func existingSubscription(userID, companyID string) *subscriptionDomain.Subscription {
	sub := &subscriptionDomain.Subscription{
		ID:                uuid.Must(uuid.NewV7()),
		UserID:            userID,
		TargetURL:         "https://example.com/hook",
		EventTypes:        `["chat.completed"]`,
		RetryCount:        3,
		RetryDelaySeconds: 5,
		TimeoutSeconds:    30,
		Active:            true,
	}
	if companyID != "" {
		sub.CompanyID = &companyID
	}
	return sub
}

func TestSubscriptionUseCase_Create(t *testing.T) {
	ctx := context.Background()
	principal := tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}

	t.Run("Success_AppliesDefaults", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)

		repo.On("Create", ctx, mock.MatchedBy(func(sub *subscriptionDomain.Subscription) bool {
			return sub.UserID == "u1" &&
				sub.CompanyID != nil && *sub.CompanyID == "c1" &&
				sub.EventTypes == `["chat.completed","task.completed"]` &&
				sub.RetryCount == subscriptionDomain.DefaultRetryCount &&
				sub.RetryDelaySeconds == subscriptionDomain.DefaultRetryDelaySeconds &&
				sub.TimeoutSeconds == subscriptionDomain.DefaultTimeoutSeconds &&
				sub.Active &&
				sub.Filters == nil
		})).Return(nil).Once()

		sub, err := uc.Create(ctx, principal, &subscriptionDomain.CreateSubscriptionInput{
			TargetURL:  "https://example.com/hook",
			EventTypes: []string{eventDomain.ChatCompleted, eventDomain.TaskCompleted},
			Filters:    &subscriptionDomain.Filters{},
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, sub.ID)
		assert.False(t, sub.CreatedAt.IsZero())
	})

	t.Run("Success_ExplicitPolicy", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		active := false

		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		sub, err := uc.Create(ctx, principal, &subscriptionDomain.CreateSubscriptionInput{
			TargetURL:         "https://example.com/hook",
			RetryCount:        intPtr(0),
			RetryDelaySeconds: intPtr(1),
			TimeoutSeconds:    intPtr(2),
			Active:            &active,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, sub.RetryCount)
		assert.Equal(t, 1, sub.RetryDelaySeconds)
		assert.Equal(t, 2, sub.TimeoutSeconds)
		assert.False(t, sub.Active)
		assert.Equal(t, "", sub.EventTypes)
	})

	t.Run("Error_UnknownEventType", func(t *testing.T) {
		uc, _, _ := setupUseCase(t)

		_, err := uc.Create(ctx, principal, &subscriptionDomain.CreateSubscriptionInput{
			TargetURL:  "https://example.com/hook",
			EventTypes: []string{"nope.nope"},
		})
		assert.ErrorIs(t, err, eventDomain.ErrUnknownEventType)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

		_, err := uc.Create(ctx, principal, &subscriptionDomain.CreateSubscriptionInput{
			TargetURL: "https://example.com/hook",
		})
		assert.EqualError(t, err, "db down")
	})
}

func TestSubscriptionUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SameCompanyOtherUser", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u2", "c1")
		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		got, err := uc.Get(ctx, tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub, got)
	})

	t.Run("Error_OtherCompanyIsNotFound", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u1", "c2")
		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		_, err := uc.Get(ctx, tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}, sub.ID)
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
	})

	t.Run("Error_UnscopedBelongsToOtherUser", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u2", "")
		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		_, err := uc.Get(ctx, tenantDomain.Principal{UserID: "u1"}, sub.ID)
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		id := uuid.Must(uuid.NewV7())
		repo.On("Get", ctx, id).Return(nil, subscriptionDomain.ErrSubscriptionNotFound).Once()

		_, err := uc.Get(ctx, tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}, id)
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
	})
}

func TestSubscriptionUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CompanyScope", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		subs := []*subscriptionDomain.Subscription{existingSubscription("u1", "c1")}
		repo.On("List", ctx, mock.MatchedBy(func(companyID *string) bool {
			return companyID != nil && *companyID == "c1"
		}), "u1", 0, 50).Return(subs, nil).Once()

		got, err := uc.List(ctx, tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}, 0, 50)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("Success_UserScope", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		repo.On("List", ctx, (*string)(nil), "u1", 10, 5).
			Return([]*subscriptionDomain.Subscription{}, nil).
			Once()

		got, err := uc.List(ctx, tenantDomain.Principal{UserID: "u1"}, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSubscriptionUseCase_Update(t *testing.T) {
	ctx := context.Background()
	owner := tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}

	t.Run("Success_PartialUpdate", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u1", "c1")
		sub.Secret = "old"
		eventTypes := []string{eventDomain.TaskFailed, eventDomain.Wildcard}
		active := false

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()
		repo.On("Update", ctx, sub).Return(nil).Once()

		got, err := uc.Update(ctx, owner, sub.ID, &subscriptionDomain.UpdateSubscriptionInput{
			EventTypes: &eventTypes,
			Secret:     strPtr(""),
			RetryCount: intPtr(1),
			Active:     &active,
		})
		require.NoError(t, err)
		assert.Equal(t, `["task.failed","*"]`, got.EventTypes)
		assert.Equal(t, "", got.Secret)
		assert.Equal(t, 1, got.RetryCount)
		assert.Equal(t, 5, got.RetryDelaySeconds)
		assert.False(t, got.Active)
		assert.Equal(t, "https://example.com/hook", got.TargetURL)
	})

	t.Run("Success_ClearFilters", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u1", "c1")
		sub.Filters = &subscriptionDomain.Filters{UserID: strPtr("u9")}

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()
		repo.On("Update", ctx, sub).Return(nil).Once()

		got, err := uc.Update(ctx, owner, sub.ID, &subscriptionDomain.UpdateSubscriptionInput{ClearFilters: true})
		require.NoError(t, err)
		assert.Nil(t, got.Filters)
	})

	t.Run("Error_UnknownEventType", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u1", "c1")
		eventTypes := []string{"bogus.event"}

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		_, err := uc.Update(ctx, owner, sub.ID, &subscriptionDomain.UpdateSubscriptionInput{EventTypes: &eventTypes})
		assert.ErrorIs(t, err, eventDomain.ErrUnknownEventType)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_NotOwner", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u2", "c1")

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		_, err := uc.Update(ctx, owner, sub.ID, &subscriptionDomain.UpdateSubscriptionInput{})
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionForbidden)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	})
}

func TestSubscriptionUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	owner := tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}

	t.Run("Success_DeleteOwned", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u1", "c1")

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()
		repo.On("Delete", ctx, sub.ID).Return(nil).Once()

		assert.NoError(t, uc.Delete(ctx, owner, sub.ID))
	})

	t.Run("Error_NotOwner", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u2", "c1")

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		assert.ErrorIs(t, uc.Delete(ctx, owner, sub.ID), subscriptionDomain.ErrSubscriptionForbidden)
	})
}

func TestSubscriptionUseCase_SendTest(t *testing.T) {
	ctx := context.Background()
	principal := tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}

	t.Run("Success_DefaultEventType", func(t *testing.T) {
		uc, repo, emitter := setupUseCase(t)
		sub := existingSubscription("u2", "c1")
		eventID := uuid.Must(uuid.NewV7())

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()
		emitter.On("EmitTest", ctx, mock.MatchedBy(func(input *eventDomain.EmitInput) bool {
			return input.EventType == eventDomain.WebhookTest &&
				input.UserID == "u1" &&
				input.CompanyID == "c1" &&
				input.Data["message"] != nil
		}), sub.ID).Return(eventID, nil).Once()

		got, err := uc.SendTest(ctx, principal, sub.ID, &subscriptionDomain.SendTestInput{})
		require.NoError(t, err)
		assert.Equal(t, eventID, got)
	})

	t.Run("Success_CustomEventType", func(t *testing.T) {
		uc, repo, emitter := setupUseCase(t)
		sub := existingSubscription("u1", "c1")
		eventID := uuid.Must(uuid.NewV7())

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()
		emitter.On("EmitTest", ctx, mock.MatchedBy(func(input *eventDomain.EmitInput) bool {
			return input.EventType == eventDomain.ChatCompleted && input.Data["chat_id"] == "42"
		}), sub.ID).Return(eventID, nil).Once()

		got, err := uc.SendTest(ctx, principal, sub.ID, &subscriptionDomain.SendTestInput{
			EventType: eventDomain.ChatCompleted,
			Data:      map[string]any{"chat_id": "42"},
		})
		require.NoError(t, err)
		assert.Equal(t, eventID, got)
	})

	t.Run("Error_Inactive", func(t *testing.T) {
		uc, repo, _ := setupUseCase(t)
		sub := existingSubscription("u1", "c1")
		sub.Active = false

		repo.On("Get", ctx, sub.ID).Return(sub, nil).Once()

		_, err := uc.SendTest(ctx, principal, sub.ID, &subscriptionDomain.SendTestInput{})
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionInactive)
	})
}
