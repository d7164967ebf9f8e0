package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Send(t *testing.T) {
	t.Run("Success_HeadersAndSignature", func(t *testing.T) {
		body := []byte(`{"event_type":"chat.completed"}`)
		eventID := uuid.Must(uuid.NewV7())

		var got *http.Request
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("queued"))
		}))
		defer server.Close()

		sender := NewHTTPSender(nil, "test-agent/1.0", 1000)
		resp, err := sender.Send(context.Background(), &OutboundRequest{
			URL:       server.URL,
			Body:      body,
			Secret:    "s3cret",
			EventType: "chat.completed",
			EventID:   eventID,
			Attempt:   2,
			StaticHeaders: map[string]string{
				"X-Team":              "core",
				"Content-Type":        "text/plain",
				"X-Webhook-Signature": "forged",
			},
			Timeout: 5 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, "queued", resp.Body)

		require.NotNil(t, got)
		assert.Equal(t, http.MethodPost, got.Method)
		assert.Equal(t, body, gotBody)
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.Equal(t, "test-agent/1.0", got.Header.Get("User-Agent"))
		assert.Equal(t, "chat.completed", got.Header.Get(EventHeader))
		assert.Equal(t, eventID.String(), got.Header.Get(EventIDHeader))
		assert.Equal(t, "2", got.Header.Get(AttemptHeader))
		assert.Equal(t, "core", got.Header.Get("X-Team"))
		assert.Equal(t, Sign("s3cret", body), got.Header.Get(SignatureHeader))
	})

	t.Run("Success_NoSecretNoSignature", func(t *testing.T) {
		var signature string
		var present bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature = r.Header.Get(SignatureHeader)
			_, present = r.Header[SignatureHeader]
		}))
		defer server.Close()

		sender := NewHTTPSender(nil, "", 0)
		resp, err := sender.Send(context.Background(), &OutboundRequest{
			URL:           server.URL,
			Body:          []byte("{}"),
			StaticHeaders: map[string]string{SignatureHeader: "forged"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, signature)
		assert.False(t, present)
	})

	t.Run("Success_Non2xxIsAResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(strings.Repeat("e", 5000)))
		}))
		defer server.Close()

		sender := NewHTTPSender(nil, "", 1000)
		resp, err := sender.Send(context.Background(), &OutboundRequest{URL: server.URL, Body: []byte("{}")})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Len(t, resp.Body, 1000)
	})

	t.Run("Error_Timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		sender := NewHTTPSender(nil, "", 0)
		_, err := sender.Send(context.Background(), &OutboundRequest{
			URL:     server.URL,
			Body:    []byte("{}"),
			Timeout: 50 * time.Millisecond,
		})
		require.Error(t, err)
	})

	t.Run("Error_ConnectionRefused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		sender := NewHTTPSender(nil, "", 0)
		_, err := sender.Send(context.Background(), &OutboundRequest{URL: url, Body: []byte("{}")})
		require.Error(t, err)
	})

	t.Run("Error_InvalidURL", func(t *testing.T) {
		sender := NewHTTPSender(nil, "", 0)
		_, err := sender.Send(context.Background(), &OutboundRequest{URL: "://bad", Body: []byte("{}")})
		require.Error(t, err)
	})
}
