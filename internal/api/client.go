// Package api implements the generic REST resource client the rest of the
// core delegates its remote I/O to. Transport policy (timeouts, base URL)
// lives here; callers see JSON in, JSON out, and a small error taxonomy.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when a single-resource fetch hits a missing id.
var ErrNotFound = errors.New("resource not found")

// StatusError reports a non-2xx response that is not a plain not-found.
type StatusError struct {
	Status int
	Path   string
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s: unexpected status %d", e.Path, e.Status)
}

// TokenSource supplies the bearer token of the current session, if any.
type TokenSource interface {
	// Token returns the session token and whether a session exists.
	Token() (string, bool)
}

// Resource is the generic REST surface consumed by the stores and services.
// Implementations return exactly one value per call or fail with an error;
// there are no retries at this layer.
type Resource interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Client is the resty-backed Resource implementation.
type Client struct {
	rc *resty.Client
}

// NewClient builds a Client for the given base URL. If tokens is non-nil,
// every request outside the authentication endpoints carries an
// "Authorization: Bearer <token>" header whenever a session exists.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tokens == nil || isAuthPath(req.URL) {
			return nil
		}
		if token, ok := tokens.Token(); ok {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return &Client{rc: rc}
}

// isAuthPath reports whether the request targets an authentication endpoint,
// which must never carry an Authorization header.
func isAuthPath(path string) bool {
	return strings.Contains(path, "/auth") ||
		strings.Contains(path, "/login") ||
		strings.Contains(path, "/register")
}

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	resp, err := c.rc.R().SetContext(ctx).SetResult(out).Get("/" + path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return checkStatus(resp, path)
}

// Post sends body as JSON to path and decodes the response into out.
// A nil out discards the response body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	req := c.rc.R().SetContext(ctx).SetBody(body)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post("/" + path)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return checkStatus(resp, path)
}

// Put sends body as JSON to path and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	req := c.rc.R().SetContext(ctx).SetBody(body)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Put("/" + path)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	return checkStatus(resp, path)
}

// Delete removes the resource at path. The response body is ignored.
func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.rc.R().SetContext(ctx).Delete("/" + path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return checkStatus(resp, path)
}

func checkStatus(resp *resty.Response, path string) error {
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	default:
		return &StatusError{
			Status: resp.StatusCode(),
			Path:   path,
			Body:   string(resp.Body()),
		}
	}
}
