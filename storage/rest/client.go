package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
)

// TokenSource supplies the bearer credential attached to every call. An
// empty token leaves the request anonymous (the login call itself).
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// envelope is the backend's uniform response shape. Every 2xx body is still
// double-checked: success must be true before data is usable.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client calls the school REST backend. All requests carry JSON headers and
// the tunnel-interstitial bypass header; responses that are not JSON are
// rejected with the offending content-type in the error.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

func NewClient(conf *core.Config, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BackendURL, "/"),
		client:  &http.Client{Timeout: conf.HTTPTimeout},
		tokens:  tokens,
	}
}

// do runs one backend call and returns the envelope's data payload.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	op := method + " " + path

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, core.NewRemoteError(op, 0, err.Error())
	}
	defer res.Body.Close()

	mt, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if mt != "application/json" {
		return nil, core.NewRemoteError(op, res.StatusCode,
			fmt.Sprintf("expected application/json, got %q", mt))
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, core.NewRemoteError(op, res.StatusCode, "unreadable response body")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return nil, core.NewRemoteError(op, res.StatusCode, msg)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return nil, core.NewRemoteError(op, res.StatusCode, msg)
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}
