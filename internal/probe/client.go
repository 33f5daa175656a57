package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Credentials are sent once as the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyResponse is the body returned by the verify-email endpoint.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginResponse is the body returned by the login endpoint.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
}

// ResponseError reports a non-2xx reply together with its raw payload.
type ResponseError struct {
	StatusCode int
	Payload    string
}

func (e *ResponseError) Error() string {
	if e.Payload == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Payload)
}

// Client talks to the auth endpoints of a running API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client rooted at baseURL, e.g. http://localhost:8080/api/auth.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// VerifyEmail calls GET {base}/verify-email/{token}.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*VerifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify-email/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}

	var out VerifyResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login calls POST {base}/login with the credentials as a JSON body.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out LoginResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{StatusCode: resp.StatusCode, Payload: strings.TrimSpace(string(payload))}
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
