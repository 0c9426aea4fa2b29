// Package client is a typed façade over the HTTP API. A cookie jar
// carries the session, so callers never touch tokens directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/jobhunt/jobhunt/internal/domain/application"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)

	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// APIError is the single error shape every non-2xx response collapses
// into, carrying the server's message when one was provided.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("HTTP %d", e.Status)
}

type UserInfo struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	OK   bool     `json:"ok"`
	User UserInfo `json:"user"`
}

type listResponse struct {
	Items []application.Application `json:"items"`
}

type itemResponse struct {
	Item application.Application `json:"item"`
}

func (c *Client) Register(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{email, password}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{email, password}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Refresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, nil)
}

func (c *Client) Me(ctx context.Context) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *Client) ListApplications(ctx context.Context) ([]application.Application, error) {
	var out listResponse
	err := c.do(ctx, http.MethodGet, "/api/applications", nil, &out)
	return out.Items, err
}

func (c *Client) CreateApplication(ctx context.Context, req application.CreateApplicationRequest) (application.Application, error) {
	var out itemResponse
	err := c.do(ctx, http.MethodPost, "/api/applications", req, &out)
	return out.Item, err
}

func (c *Client) UpdateApplication(ctx context.Context, id string, patch application.UpdateApplicationRequest) (application.Application, error) {
	var out itemResponse
	err := c.do(ctx, http.MethodPut, "/api/applications/"+id, patch, &out)
	return out.Item, err
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/applications/"+id, nil, nil)
}

func (c *Client) Summary(ctx context.Context) (application.Summary, error) {
	var out application.Summary
	err := c.do(ctx, http.MethodGet, "/api/analytics/summary", nil, &out)
	return out, err
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return err
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	// the body may be absent or unparsable; the status-based fallback
	// message covers that
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}
