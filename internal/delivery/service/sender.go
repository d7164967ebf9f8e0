package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
)

// Delivery headers set on every outbound request.
const (
	EventHeader   = "X-Webhook-Event"
	EventIDHeader = "X-Webhook-Event-Id"
	AttemptHeader = "X-Webhook-Attempt"
)

// DefaultUserAgent is used when no user agent is configured.
const DefaultUserAgent = "webhooks-delivery/1.0"

// OutboundRequest describes one delivery attempt.
type OutboundRequest struct {
	URL           string
	Body          []byte
	Secret        string
	EventType     string
	EventID       uuid.UUID
	Attempt       int
	StaticHeaders map[string]string
	Timeout       time.Duration
}

// OutboundResponse is what the destination answered.
type OutboundResponse struct {
	StatusCode int
	Body       string
}

// HTTPSender posts signed JSON payloads to subscriber endpoints.
type HTTPSender struct {
	client            *http.Client
	userAgent         string
	responseMaxLength int
}

// Send performs one POST bounded by req.Timeout. Transport errors and timeouts are
// returned as errors; any HTTP response, whatever its status, is returned as a response.
func (s *HTTPSender) Send(ctx context.Context, req *OutboundRequest) (*OutboundResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}

	// static headers go first so they cannot replace the delivery headers
	for name, value := range req.StaticHeaders {
		httpReq.Header.Set(name, value)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", s.userAgent)
	httpReq.Header.Set(EventHeader, req.EventType)
	httpReq.Header.Set(EventIDHeader, req.EventID.String())
	httpReq.Header.Set(AttemptHeader, strconv.Itoa(req.Attempt))
	httpReq.Header.Del(SignatureHeader)
	if req.Secret != "" {
		httpReq.Header.Set(SignatureHeader, Sign(req.Secret, req.Body))
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// 4 bytes per character is enough to hold responseMaxLength runes
	raw, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.responseMaxLength)*4))
	if err != nil {
		raw = nil
	}

	return &OutboundResponse{
		StatusCode: resp.StatusCode,
		Body:       deliveryDomain.Truncate(string(raw), s.responseMaxLength),
	}, nil
}

// NewHTTPSender creates a sender. A nil client uses a dedicated client without a global
// timeout; each request carries its own deadline.
func NewHTTPSender(client *http.Client, userAgent string, responseMaxLength int) *HTTPSender {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if responseMaxLength <= 0 {
		responseMaxLength = deliveryDomain.DefaultResponseMaxLength
	}
	return &HTTPSender{client: client, userAgent: userAgent, responseMaxLength: responseMaxLength}
}
