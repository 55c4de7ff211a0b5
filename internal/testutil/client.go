package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// Client talks to a running API in tests. A non-empty token is sent as
// "Authorization: Bearer <token>"; with a validator attached every response
// is checked against the API contract.
type Client struct {
	t         *testing.T
	baseURL   string
	token     string
	http      *http.Client
	validator *OpenAPIValidator
}

// NewClientWithValidator returns a client for baseURL that validates every
// response with validator.
func NewClientWithValidator(t *testing.T, baseURL string, validator *OpenAPIValidator) *Client {
	return &Client{
		t:         t,
		baseURL:   baseURL,
		http:      &http.Client{},
		validator: validator,
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// LoginAs signs in and keeps the issued token for later requests.
func (c *Client) LoginAs(t *testing.T, email, password string) {
	t.Helper()

	resp, err := c.POST("/api/auth", map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign in as %s: status %d: %s", email, resp.StatusCode, ReadBody(t, resp))
	}

	var session struct {
		Token string `json:"token"`
	}
	DecodeJSON(t, resp, &session)
	require.NotEmpty(t, session.Token)
	c.token = session.Token
}

// GET sends a GET request.
func (c *Client) GET(path string) (*http.Response, error) {
	return c.request(http.MethodGet, path, nil, c.authorization())
}

// POST sends body as JSON.
func (c *Client) POST(path string, body any) (*http.Response, error) {
	return c.request(http.MethodPost, path, body, c.authorization())
}

// PUT sends body as JSON.
func (c *Client) PUT(path string, body any) (*http.Response, error) {
	return c.request(http.MethodPut, path, body, c.authorization())
}

// DELETE sends a DELETE request.
func (c *Client) DELETE(path string) (*http.Response, error) {
	return c.request(http.MethodDelete, path, nil, c.authorization())
}

// Do sends a bodyless request with authorization as the raw header value.
func (c *Client) Do(method, path, authorization string) (*http.Response, error) {
	return c.request(method, path, nil, authorization)
}

func (c *Client) authorization() string {
	if c.token == "" {
		return ""
	}
	return "Bearer " + c.token
}

func (c *Client) request(method, path string, body any, authorization string) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if c.validator != nil {
		c.validator.ValidateResponse(c.t, req, resp)
	}
	return resp, nil
}

// DecodeJSON decodes and closes the response body.
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// ReadBody reads and closes the response body.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
