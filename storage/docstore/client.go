package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
)

// ErrNotFound is returned when the addressed document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// ServerTimestamp is a sentinel value the store replaces with its own write
// time. Send it as a field value on documents whose timestamps must not come
// from the client clock.
const ServerTimestamp = "__server_timestamp__"

// TokenSource supplies the bearer credential for store calls. A nil source,
// or an empty token, leaves the request anonymous.
type TokenSource interface {
	Token() string
}

// Client is a JSON-over-HTTP document store client. Documents are addressed
// by slash-separated paths under collections/, e.g.
// collections/teachers/{uid} or collections/quizzes/{subject}/quizzes/{id}.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

func NewClient(conf *core.Config, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.DocstoreURL, "/"),
		client:  &http.Client{Timeout: conf.HTTPTimeout},
		tokens:  tokens,
	}
}

type listQuery struct {
	orderBy string
	desc    bool
	limit   int
}

type ListOption func(*listQuery)

func WithOrder(field string, desc bool) ListOption {
	return func(q *listQuery) { q.orderBy, q.desc = field, desc }
}

func WithLimit(n int) ListOption {
	return func(q *listQuery) { q.limit = n }
}

// Get reads the document at path into v.
func (c *Client) Get(ctx context.Context, path string, v interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, v)
}

// Set writes the document at path. merge patches the stored document with
// doc's fields; otherwise the document is replaced whole.
func (c *Client) Set(ctx context.Context, path string, doc interface{}, merge bool) error {
	method := http.MethodPut
	if merge {
		method = http.MethodPatch
	}
	return c.do(ctx, method, path, "", doc, nil)
}

// List reads a whole collection into v (a pointer to a slice).
func (c *Client) List(ctx context.Context, collection string, v interface{}, opts ...ListOption) error {
	var q listQuery
	for _, opt := range opts {
		opt(&q)
	}
	params := url.Values{}
	if q.orderBy != "" {
		params.Set("orderBy", q.orderBy)
		if q.desc {
			params.Set("desc", "true")
		}
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return c.do(ctx, http.MethodGet, collection, params.Encode(), nil, v)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// Count returns the number of documents in a collection without fetching
// them.
func (c *Client) Count(ctx context.Context, collection string) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, collection+":count", "", nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (c *Client) do(ctx context.Context, method, path, query string, body, out interface{}) error {
	op := fmt.Sprintf("%s collections/%s", method, path)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, op)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	u := c.baseURL + "/collections/" + path
	if query != "" {
		u += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return core.NewRemoteError(op, 0, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var body struct {
			Message string `json:"message"`
		}
		msg := http.StatusText(res.StatusCode)
		if json.NewDecoder(res.Body).Decode(&body) == nil && body.Message != "" {
			msg = body.Message
		}
		return core.NewRemoteError(op, res.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if mt, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type")); mt != "application/json" {
		return core.NewRemoteError(op, res.StatusCode, fmt.Sprintf("expected application/json, got %q", mt))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return core.NewRemoteError(op, res.StatusCode, "unreadable response body")
	}
	return nil
}
