// Package authapi is a typed client for the backend's /auth endpoints.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// Endpoint paths relative to the API base URL.
const (
	PathRegister = "/auth/register"
	PathLogin    = "/auth/login"
	PathRefresh  = "/auth/refresh"
	PathMe       = "/auth/me"
	PathLogout   = "/auth/logout"
)

// Client talks to the backend's auth endpoints. Which credentials it sends is
// decided entirely by the http.Client it was built with: the session
// controller gets one backed by the authenticated transport, the refresh
// protocol a plain one.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL (e.g. http://host/api/v1).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates an account and returns the issued session.
func (c *Client) Register(ctx context.Context, in domain.Registration) (domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.doRequest(ctx, http.MethodPost, PathRegister, in, &out); err != nil {
		return domain.AuthResult{}, fmt.Errorf("authapi.Register: %w", err)
	}
	if out.AccessToken == "" {
		return domain.AuthResult{}, fmt.Errorf("authapi.Register: response carries no access token")
	}
	return out, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, in domain.LoginCredentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.doRequest(ctx, http.MethodPost, PathLogin, in, &out); err != nil {
		return domain.AuthResult{}, fmt.Errorf("authapi.Login: %w", err)
	}
	if out.AccessToken == "" {
		return domain.AuthResult{}, fmt.Errorf("authapi.Login: response carries no access token")
	}
	return out, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	var out domain.Credential
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, PathRefresh, body, &out); err != nil {
		return domain.Credential{}, fmt.Errorf("authapi.Refresh: %w", err)
	}
	if out.AccessToken == "" {
		return domain.Credential{}, fmt.Errorf("authapi.Refresh: response carries no access token")
	}
	return out, nil
}

// Me returns the profile of the bearer of the current access token.
func (c *Client) Me(ctx context.Context) (domain.UserProfile, error) {
	var out struct {
		User *domain.UserProfile `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, PathMe, nil, &out); err != nil {
		return domain.UserProfile{}, fmt.Errorf("authapi.Me: %w", err)
	}
	if out.User == nil {
		return domain.UserProfile{}, fmt.Errorf("authapi.Me: response carries no user")
	}
	return *out.User, nil
}

// Logout revokes refreshToken. The response body is ignored.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, PathLogout, body, nil); err != nil {
		return fmt.Errorf("authapi.Logout: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max body
	if err != nil {
		if resp.StatusCode >= 400 {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
		}
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	return decodeEnvelope(respBody, out)
}

// decodeEnvelope decodes {"data": {...}} into out, or the bare object when the
// backend does not wrap its payload.
func decodeEnvelope(raw []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	payload := raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(status int, body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return http.StatusText(status)
}
