package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/session"
)

const (
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 512
)

// Client talks JSON to the tracker API. The bearer token is read from the
// session.Store on every call, so logging in or out takes effect immediately.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	logger  core.Logger
}

var _ core.Requester = (*Client)(nil)

func NewClient(baseURL string, store session.Store, logger core.Logger, httpClient ...*http.Client) *Client {
	hc := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		store:   store,
		logger:  logger,
	}
}

func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, body, out, true)
}

func (c *Client) DoPublic(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, auth bool) error {
	op := method + " " + path
	reqID := uuid.New().String()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &core.TransportError{Op: "encoding " + op, Err: err}
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var sess session.Session
	if auth {
		if sess, err = c.store.Get(ctx); err != nil {
			return errors.Wrap(err, "reading session")
		}
		// no token, no header: the API answers 401
		if sess.Token != "" {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}
	}

	trace := map[string]interface{}{"request_id": reqID, "method": method, "path": path}
	c.logger.Debug("api request", trace, sess)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("api request failed", err, trace, sess)
		return &core.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.TransportError{Op: "reading " + op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := core.NewRequestError(resp.StatusCode, errorMessage(data))
		trace["status"] = resp.StatusCode
		c.logger.Warn("api request rejected", reqErr, trace, sess)
		return reqErr
	}

	if raw, ok := out.(*json.RawMessage); ok {
		// kept as is, even when it is not JSON
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err = json.Unmarshal(data, out); err != nil {
			return &core.TransportError{Op: "decoding " + op, Err: err}
		}
	}
	return nil
}

// errorMessage extracts the server's message from an error body:
// {"error": "..."} (or message/msg), a {field: message} map, or short plain text.
func errorMessage(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err == nil {
		for _, key := range []string{"error", "message", "msg"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
		flds := make([]string, 0, len(obj))
		for k, v := range obj {
			if s, ok := v.(string); ok {
				flds = append(flds, fmt.Sprintf("%s: %s", k, s))
			}
		}
		sort.Strings(flds)
		return strings.Join(flds, "; ")
	}

	if len(data) > maxErrorBody || bytes.HasPrefix(data, []byte("<")) {
		return ""
	}
	return string(data)
}
