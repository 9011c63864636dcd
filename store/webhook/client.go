package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Client talks to the automation-platform webhook. The platform exposes a
// single endpoint; the operation is selected by an "action" query parameter
// and scoped by a "table" parameter, mirroring the hosted-database API it
// stands in for.
type Client struct {
	baseURL         string
	authHeaderName  string
	authHeaderValue string
	httpClient      *http.Client
}

// NewClient creates a webhook client. The URL is required; the auth header
// is optional and sent verbatim when configured.
func NewClient(baseURL, authHeaderName, authHeaderValue string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("webhook URL is not configured")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid webhook URL %q", baseURL)
	}
	if authHeaderName == "" {
		authHeaderName = "Authorization"
	}
	return &Client{
		baseURL:         baseURL,
		authHeaderName:  authHeaderName,
		authHeaderValue: authHeaderValue,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// do performs one webhook request. Parameters travel as query string values;
// the response body, when out is non-nil, is decoded as JSON into out.
func (c *Client) do(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build webhook request")
	}
	if c.authHeaderValue != "" {
		req.Header.Set(c.authHeaderName, c.authHeaderValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "webhook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("webhook request failed: %d %s: %s", resp.StatusCode, resp.Status, string(body))
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode webhook response")
	}
	return nil
}

// query runs a filtered read against table.
func (c *Client) query(ctx context.Context, table string, filters map[string]any, out any) error {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("table", table)
	if len(filters) > 0 {
		params.Set("filters", encodeJSON(filters))
	}
	return c.do(ctx, params, out)
}

// insert creates one row in table and decodes the created row into out.
func (c *Client) insert(ctx context.Context, table string, data map[string]any, out any) error {
	params := url.Values{}
	params.Set("action", "insert")
	params.Set("table", table)
	params.Set("data", encodeJSON(data))
	return c.do(ctx, params, out)
}

// update patches the row identified by id and decodes the updated row into out.
func (c *Client) update(ctx context.Context, table string, id int32, data map[string]any, out any) error {
	params := url.Values{}
	params.Set("action", "update")
	params.Set("table", table)
	params.Set("id", fmt.Sprintf("%d", id))
	params.Set("data", encodeJSON(data))
	return c.do(ctx, params, out)
}

// upsert creates or replaces a row keyed by the table's natural key.
func (c *Client) upsert(ctx context.Context, table string, data map[string]any, out any) error {
	params := url.Values{}
	params.Set("action", "upsert")
	params.Set("table", table)
	params.Set("data", encodeJSON(data))
	return c.do(ctx, params, out)
}

// delete removes the row identified by id.
func (c *Client) delete(ctx context.Context, table string, id int32) error {
	params := url.Values{}
	params.Set("action", "delete")
	params.Set("table", table)
	params.Set("id", fmt.Sprintf("%d", id))
	return c.do(ctx, params, nil)
}

func encodeJSON(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		// Maps of scalars cannot fail to marshal.
		return "{}"
	}
	return string(buf)
}
