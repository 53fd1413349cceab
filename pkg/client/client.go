// Package client talks to a running files manager agent over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Abdorithm/alx-files-manager/pkg/auth"
	"github.com/Abdorithm/alx-files-manager/pkg/files"
)

// APIError is a non-2xx answer from the agent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

func New(address, token string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(address, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid agent address %q: %w", address, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid agent address %q: scheme and host are required", address)
	}

	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type UploadRequest struct {
	Name     string     `json:"name"`
	Type     files.Kind `json:"type"`
	ParentID string     `json:"parentId,omitempty"`
	IsPublic bool       `json:"isPublic"`
	Data     string     `json:"data,omitempty"`
}

// NewUpload prepares an upload of raw bytes. Folders carry no data.
func NewUpload(name string, kind files.Kind, parentID string, public bool, data []byte) UploadRequest {
	req := UploadRequest{Name: name, Type: kind, ParentID: parentID, IsPublic: public}
	if kind != files.KindFolder {
		req.Data = base64.StdEncoding.EncodeToString(data)
	}
	return req
}

func (c *Client) Register(ctx context.Context, email, password string) (*auth.Principal, error) {
	var p auth.Principal
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/users", nil, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Connect opens a session and returns its token.
func (c *Client) Connect(ctx context.Context, email, password string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/connect", nil, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(email, password)

	var out struct {
		Token string `json:"token"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/disconnect", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*auth.Principal, error) {
	var p auth.Principal
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Upload(ctx context.Context, upload UploadRequest) (files.Projection, error) {
	var p files.Projection
	err := c.doJSON(ctx, http.MethodPost, "/files", nil, upload, &p)
	return p, err
}

func (c *Client) Show(ctx context.Context, id string) (files.Projection, error) {
	var p files.Projection
	err := c.doJSON(ctx, http.MethodGet, "/files/"+url.PathEscape(id), nil, nil, &p)
	return p, err
}

func (c *Client) List(ctx context.Context, parentID string, page int) ([]files.Projection, error) {
	q := url.Values{}
	if parentID != "" {
		q.Set("parentId", parentID)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var list []files.Projection
	err := c.doJSON(ctx, http.MethodGet, "/files", q, nil, &list)
	return list, err
}

func (c *Client) SetPublic(ctx context.Context, id string, public bool) (files.Projection, error) {
	action := "/unpublish"
	if public {
		action = "/publish"
	}

	var p files.Projection
	err := c.doJSON(ctx, http.MethodPut, "/files/"+url.PathEscape(id)+action, nil, nil, &p)
	return p, err
}

// Content copies the record content (or its size variant) to w and returns
// the served content type.
func (c *Client) Content(ctx context.Context, id, size string, w io.Writer) (string, error) {
	q := url.Values{}
	if size != "" {
		q.Set("size", size)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/files/"+url.PathEscape(id)+"/data", q, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return resp.Header.Get("Content-Type"), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-Token", c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the agent.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
