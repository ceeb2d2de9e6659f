package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VijayPalsawdiya/ttrush-go/internal/client/repositories/tokens"
	"github.com/VijayPalsawdiya/ttrush-go/internal/common"
	"github.com/VijayPalsawdiya/ttrush-go/internal/logging"
)

const refreshEndpoint = "/auth/refresh"

// envelope is the response shape shared by all backend endpoints:
// {success, message, data} on success, {success:false, error} on failure.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  tokens.Store
	log     logging.Logger
}

func NewHTTPClient(baseURL string, store tokens.Store, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  store,
		log:     log.With("component", "api"),
	}
}

// send performs one HTTP round trip and decodes the envelope. bearer is
// attached when non-empty. A transport failure maps to ErrNetworkUnavailable,
// a non-2xx response to RequestError.
func (c *HTTPClient) send(ctx context.Context, method, endpoint string, body any, bearer string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetworkUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetworkUnavailable, err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body (proxy error page) is only a problem for 2xx
		// responses; for errors the status line is enough.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}

	return env.Data, nil
}

// isTokenError reports whether err indicates an invalid or expired access
// token: HTTP 401, or the backend's "invalid token"/"token expired" error
// strings on any status.
func isTokenError(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	if reqErr.Status == http.StatusUnauthorized {
		return true
	}
	msg := strings.ToLower(reqErr.Message)
	return strings.Contains(msg, "invalid token") || strings.Contains(msg, "token expired")
}

// DoPublic issues an unauthenticated request (login, token refresh).
func (c *HTTPClient) DoPublic(ctx context.Context, method, endpoint string, body any, out any) error {
	data, err := c.send(ctx, method, endpoint, body, "")
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// Do issues an authenticated request. On a token error it runs exactly one
// refresh cycle: a successful refresh persists the new access token and
// retries the original request once; a failed refresh clears both tokens and
// surfaces ErrSessionExpired.
func (c *HTTPClient) Do(ctx context.Context, method, endpoint string, body any, out any) error {
	pair, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}
	if pair == nil {
		return ErrUnauthenticated
	}

	data, err := c.send(ctx, method, endpoint, body, pair.AccessToken)
	if err == nil {
		return decodeInto(data, out)
	}
	if !isTokenError(err) {
		return err
	}

	accessToken, refreshErr := c.refresh(ctx, pair.RefreshToken)
	if refreshErr != nil {
		c.log.Warn(ctx, "token refresh failed, clearing tokens", "error", refreshErr)
		if clearErr := c.tokens.Clear(ctx); clearErr != nil {
			c.log.Error(ctx, "failed to clear tokens", "error", clearErr)
		}
		return ErrSessionExpired
	}

	data, err = c.send(ctx, method, endpoint, body, accessToken)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// refresh exchanges the refresh token for a new access token and persists it.
// The refresh response must be observed before the retry is issued.
func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.New("no refresh token stored")
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	reqBody := map[string]string{"refreshToken": refreshToken}
	data, err := c.send(ctx, http.MethodPost, refreshEndpoint, reqBody, "")
	if err != nil {
		return "", err
	}
	if err := decodeInto(data, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", errors.New("refresh response missing access token")
	}

	if err := c.tokens.SetAccessToken(ctx, result.AccessToken); err != nil {
		return "", err
	}
	return result.AccessToken, nil
}

func decodeInto(data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
