package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

func TestCreateSubscriptionRequest_Validate(t *testing.T) {
	valid := func() CreateSubscriptionRequest {
		return CreateSubscriptionRequest{
			TargetURL:  "https://example.com/hooks",
			EventTypes: []string{"chat.completed", "*"},
			Headers:    map[string]string{"X-Team": "core"},
			RetryCount: intPtr(3),
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateSubscriptionRequest)
		wantErr string
	}{
		{name: "Success_Valid", mutate: func(r *CreateSubscriptionRequest) {}},
		{
			name:    "Error_MissingTargetURL",
			mutate:  func(r *CreateSubscriptionRequest) { r.TargetURL = "" },
			wantErr: "target_url",
		},
		{
			name:    "Error_NonHTTPTargetURL",
			mutate:  func(r *CreateSubscriptionRequest) { r.TargetURL = "ftp://example.com/hooks" },
			wantErr: "target_url",
		},
		{
			name:    "Error_NoEventTypes",
			mutate:  func(r *CreateSubscriptionRequest) { r.EventTypes = nil },
			wantErr: "event_types",
		},
		{
			name:    "Error_MalformedEventType",
			mutate:  func(r *CreateSubscriptionRequest) { r.EventTypes = []string{"Chat Completed"} },
			wantErr: "event_types",
		},
		{
			name:    "Error_InvalidHeaderName",
			mutate:  func(r *CreateSubscriptionRequest) { r.Headers = map[string]string{"Bad Header": "x"} },
			wantErr: "headers",
		},
		{
			name:    "Error_RetryCountTooHigh",
			mutate:  func(r *CreateSubscriptionRequest) { r.RetryCount = intPtr(11) },
			wantErr: "retry_count",
		},
		{
			name:    "Error_NegativeRetryDelay",
			mutate:  func(r *CreateSubscriptionRequest) { r.RetryDelaySeconds = intPtr(-1) },
			wantErr: "retry_delay_seconds",
		},
		{
			name:    "Error_TimeoutTooHigh",
			mutate:  func(r *CreateSubscriptionRequest) { r.TimeoutSeconds = intPtr(301) },
			wantErr: "timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpdateSubscriptionRequest_Validate(t *testing.T) {
	t.Run("Success_EmptyUpdate", func(t *testing.T) {
		req := UpdateSubscriptionRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_PartialUpdate", func(t *testing.T) {
		url := "https://example.com/new"
		eventTypes := []string{"task.failed"}
		headers := map[string]string{"X-Env": "prod"}
		req := UpdateSubscriptionRequest{TargetURL: &url, EventTypes: &eventTypes, Headers: &headers}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_EmptyTargetURL", func(t *testing.T) {
		url := ""
		req := UpdateSubscriptionRequest{TargetURL: &url}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target_url")
	})

	t.Run("Error_EmptyEventTypes", func(t *testing.T) {
		eventTypes := []string{}
		req := UpdateSubscriptionRequest{EventTypes: &eventTypes}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "event_types")
	})

	t.Run("Error_InvalidHeaderName", func(t *testing.T) {
		headers := map[string]string{"bad:name": "x"}
		req := UpdateSubscriptionRequest{Headers: &headers}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "headers")
	})
}

func TestSendTestRequest_Validate(t *testing.T) {
	assert.NoError(t, (&SendTestRequest{}).Validate())
	assert.NoError(t, (&SendTestRequest{EventType: "chat.completed"}).Validate())
	assert.Error(t, (&SendTestRequest{EventType: "not valid"}).Validate())
}

func TestCreateSubscriptionRequest_ToInput(t *testing.T) {
	active := false
	req := CreateSubscriptionRequest{
		TargetURL:   "https://example.com",
		EventTypes:  []string{"*"},
		Secret:      "s",
		Active:      &active,
		RetryCount:  intPtr(1),
		Description: "d",
	}

	input := req.ToInput()
	assert.Equal(t, "https://example.com", input.TargetURL)
	assert.Equal(t, []string{"*"}, input.EventTypes)
	assert.Equal(t, "s", input.Secret)
	assert.Same(t, req.Active, input.Active)
	assert.Equal(t, 1, *input.RetryCount)
	assert.Equal(t, "d", input.Description)
}
