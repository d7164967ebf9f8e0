package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/webhooks/internal/errors"
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

type staticContributor struct {
	name  string
	types []eventDomain.EventTypeInfo
}

func (s staticContributor) Name() string { return s.name }

func (s staticContributor) EventTypes() []eventDomain.EventTypeInfo { return s.types }

func TestCatalog_List(t *testing.T) {
	t.Run("Success_CoreTypesSorted", func(t *testing.T) {
		catalog := NewCatalog()

		infos := catalog.List()
		require.Len(t, infos, len(eventDomain.CoreEventTypes()))
		for i := 1; i < len(infos); i++ {
			assert.Less(t, infos[i-1].Type, infos[i].Type)
		}
		for _, info := range infos {
			assert.Equal(t, eventDomain.CoreSource, info.Source)
		}
	})

	t.Run("Success_IncludesContributions", func(t *testing.T) {
		catalog := NewCatalog(staticContributor{
			name:  "crm",
			types: []eventDomain.EventTypeInfo{{Type: "crm.lead_created", Description: "Lead created"}},
		})

		assert.True(t, catalog.IsKnown("crm.lead_created"))
		var found bool
		for _, info := range catalog.List() {
			if info.Type == "crm.lead_created" {
				found = true
				assert.Equal(t, "crm", info.Source)
			}
		}
		assert.True(t, found)
	})
}

func TestCatalog_Register(t *testing.T) {
	t.Run("Success_CoreTypesAreNotOverridden", func(t *testing.T) {
		catalog := NewCatalog()
		catalog.Register(staticContributor{
			name:  "plugin",
			types: []eventDomain.EventTypeInfo{{Type: eventDomain.ChatCompleted, Description: "override"}},
		})

		for _, info := range catalog.List() {
			if info.Type == eventDomain.ChatCompleted {
				assert.Equal(t, eventDomain.CoreSource, info.Source)
				assert.NotEqual(t, "override", info.Description)
			}
		}
	})
}

func TestCatalog_Validate(t *testing.T) {
	catalog := NewCatalog()

	t.Run("Success_KnownAndWildcard", func(t *testing.T) {
		err := catalog.Validate([]string{eventDomain.ChatCompleted, eventDomain.Wildcard})
		assert.NoError(t, err)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		assert.NoError(t, catalog.Validate(nil))
	})

	t.Run("Error_UnknownTypes", func(t *testing.T) {
		err := catalog.Validate([]string{eventDomain.TaskCompleted, "nope.one", "nope.two"})

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, eventDomain.ErrUnknownEventType))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "nope.one, nope.two")
	})
}
