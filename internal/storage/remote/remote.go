// Package remote is the record store client for a students records
// service reached over HTTP. It satisfies storage.Storage so the dashboard
// can run against a hosted service exactly as it runs against a local
// database.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the /api/students routes of the records service.
// Requests are sent once; failures are never retried.
type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// New creates a client for the service at baseURL. token is sent as a
// bearer token and identifies the owner of inserted records.
// If timeout is zero, requests time out after 30s.
func New(baseURL, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListStudents(ctx context.Context) ([]types.Student, error) {
	const op = "list students"
	var out []types.Student
	if err := c.do(ctx, op, http.MethodGet, "", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]types.Student, 0)
	}
	return out, nil
}

func (c *Client) GetStudent(ctx context.Context, id string) (types.Student, error) {
	const op = "get student"
	var out types.Student
	if err := c.do(ctx, op, http.MethodGet, id, nil, &out); err != nil {
		return types.Student{}, err
	}
	return out, nil
}

// InsertStudent posts the draft. ownerID must match the subject of the
// client's token; the service derives ownership from the token itself.
func (c *Client) InsertStudent(ctx context.Context, draft types.Draft, ownerID string) (types.Student, error) {
	const op = "insert student"
	if err := storage.CheckInsert(op, draft, ownerID); err != nil {
		return types.Student{}, err
	}
	var out types.Student
	if err := c.do(ctx, op, http.MethodPost, "", draft, &out); err != nil {
		return types.Student{}, err
	}
	return out, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id string, draft types.Draft) error {
	const op = "update student"
	if err := storage.CheckUpdate(op, id, draft); err != nil {
		return err
	}
	return c.do(ctx, op, http.MethodPut, id, draft, nil)
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, "delete student", http.MethodDelete, id, nil, nil)
}

// Close releases idle connections when the client owns its transport.
func (c *Client) Close() error {
	if hc, ok := c.http.(*http.Client); ok {
		hc.CloseIdleConnections()
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, id string, body, out any) error {
	endpoint := c.baseURL + "/api/students"
	if id != "" {
		endpoint += "/" + url.PathEscape(id)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return storage.Wrap(op, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return storage.Wrap(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return storage.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, id, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return storage.Wrap(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError maps a non-2xx response to a *storage.RemoteError carrying the
// service's own message.
func statusError(op, id string, resp *http.Response) error {
	msg := response.ReadError(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("%s: %s", op, http.StatusText(resp.StatusCode))
	}

	re := &storage.RemoteError{Op: op, Message: msg}
	switch resp.StatusCode {
	case http.StatusNotFound:
		if id != "" {
			re.Err = storage.ErrNotFound
		}
	case http.StatusBadRequest:
		re.Err = storage.ErrInvalid
	}
	return re
}
