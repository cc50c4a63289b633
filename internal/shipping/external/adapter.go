package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/db/models"
)

const (
	defaultRequestTimeout       = 5 * time.Second
	defaultMaxRetries           = 1
	errorBodyReadLimit    int64 = 1024
)

// Adapter is the shared HTTP plumbing for external logistics partners:
// a per-call timeout with real cancellation, a bounded retry on transport
// failures only, typed credential access, and secret redaction on every
// error that leaves the adapter.
type Adapter struct {
	providerID  string
	name        string
	credentials map[string]any
	settings    map[string]any
	httpClient  *http.Client
	timeout     time.Duration
	maxRetries  int
	redactor    *Redactor
}

// AdapterOption configures optional adapter behavior.
type AdapterOption func(*Adapter)

// WithHTTPClient overrides the default HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) AdapterOption {
	return func(a *Adapter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) AdapterOption {
	return func(a *Adapter) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithMaxRetries overrides the transport-failure retry budget.
func WithMaxRetries(retries int) AdapterOption {
	return func(a *Adapter) {
		if retries >= 0 {
			a.maxRetries = retries
		}
	}
}

// NewAdapter builds the shared adapter core from a stored provider config.
// Every string credential value is registered with the redactor.
func NewAdapter(config *models.ShippingProvider, opts ...AdapterOption) *Adapter {
	secrets := make([]string, 0, len(config.Credentials))
	for _, value := range config.Credentials {
		if s, ok := value.(string); ok {
			secrets = append(secrets, s)
		}
	}

	adapter := &Adapter{
		providerID:  config.ProviderID,
		name:        config.Name,
		credentials: config.Credentials,
		settings:    config.Settings,
		timeout:     defaultRequestTimeout,
		maxRetries:  defaultMaxRetries,
		redactor:    NewRedactor(secrets...),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}

	if adapter.httpClient == nil {
		adapter.httpClient = &http.Client{}
	}
	return adapter
}

// ProviderID names the provider this adapter serves.
func (a *Adapter) ProviderID() string {
	return a.providerID
}

// Name returns the display name from the stored config.
func (a *Adapter) Name() string {
	return a.name
}

// Credential returns a required string credential. Absent, empty or
// non-string values fail loudly instead of producing a broken request.
func (a *Adapter) Credential(key string) (string, error) {
	raw, ok := a.credentials[key]
	if !ok {
		return "", a.fail(nil, false, fmt.Sprintf("missing credential %q", key))
	}
	value, ok := raw.(string)
	if !ok {
		return "", a.fail(nil, false, fmt.Sprintf("credential %q has unexpected type %T", key, raw))
	}
	if strings.TrimSpace(value) == "" {
		return "", a.fail(nil, false, fmt.Sprintf("credential %q is empty", key))
	}
	return value, nil
}

// Setting returns an optional string setting with a fallback.
func (a *Adapter) Setting(key, fallback string) string {
	if raw, ok := a.settings[key]; ok {
		if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return fallback
}

// DoJSON performs one JSON request/response exchange. Transport and timeout
// failures are retried up to the configured budget; HTTP status errors are
// business responses and never retried.
func (a *Adapter) DoJSON(ctx context.Context, method, url string, headers map[string]string, body, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return a.fail(err, false, "encode request payload")
		}
		payload = encoded
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return a.fail(err, true, "request cancelled")
		}

		retryable, err := a.doOnce(ctx, method, url, headers, payload, out)
		if err == nil {
			return nil
		}
		if !retryable {
			// Business failure from the partner, retrying will not help.
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (a *Adapter) doOnce(ctx context.Context, method, url string, headers map[string]string, payload []byte, out any) (retryable bool, err error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, reqErr := http.NewRequestWithContext(callCtx, method, url, reader)
	if reqErr != nil {
		return false, a.fail(reqErr, false, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, doErr := a.httpClient.Do(req)
	if doErr != nil {
		timedOut := callCtx.Err() == context.DeadlineExceeded
		return true, a.fail(doErr, timedOut, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return false, a.fail(
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			false, "request rejected")
	}

	if out == nil {
		return false, nil
	}
	if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
		return false, a.fail(decErr, false, "decode response")
	}
	return false, nil
}

// fail wraps any adapter failure into a ProviderError with the message
// scrubbed of credential values. Nothing leaves the adapter unscrubbed.
func (a *Adapter) fail(cause error, timeout bool, message string) *shipping.ProviderError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &shipping.ProviderError{
		ProviderID: a.providerID,
		Timeout:    timeout,
		Message:    a.redactor.Scrub(message),
		Err:        cause,
	}
}
