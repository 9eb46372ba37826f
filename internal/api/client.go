package api

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

	"github.com/NASA-IMPACT/stac-admin/internal/model"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed-string TokenSource (flag, env var or config file).
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) { return string(t), nil }

// Config carries the connection settings for a catalog API.
type Config struct {
	// BaseURL is the STAC API root, e.g. https://stac.example.com.
	BaseURL string
	// Tokens supplies bearer tokens; nil disables authentication.
	Tokens TokenSource
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to a STAC transaction API.
type Client struct {
	base   string
	tokens TokenSource
	http   *http.Client
}

// NewClient builds a catalog client. The base URL must be non-empty.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: base, tokens: cfg.Tokens, http: hc}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.base }

// CollectionList is the paged response of GET /collections.
type CollectionList struct {
	Collections []model.Doc `json:"collections"`
	Links       []model.Doc `json:"links"`
}

// ItemList is the paged GeoJSON response of GET /collections/{id}/items.
type ItemList struct {
	Features []model.Doc `json:"features"`
	Links    []model.Doc `json:"links"`
}

// ListCollections fetches one page of collections.
func (c *Client) ListCollections(ctx context.Context, limit, offset int) (*CollectionList, error) {
	u := fmt.Sprintf("%s/collections?limit=%d&offset=%d", c.base, limit, offset)
	var out CollectionList
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCollection fetches one collection by ID.
func (c *Client) GetCollection(ctx context.Context, id string) (model.Doc, error) {
	var out model.Doc
	if err := c.do(ctx, http.MethodGet, c.base+"/collections/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCollection removes a collection.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.base+"/collections/"+url.PathEscape(id), nil, nil)
}

// ListItems fetches one page of items in a collection.
func (c *Client) ListItems(ctx context.Context, collectionID string, limit, offset int) (*ItemList, error) {
	u := fmt.Sprintf("%s/collections/%s/items?limit=%d&offset=%d",
		c.base, url.PathEscape(collectionID), limit, offset)
	var out ItemList
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetItem fetches one item by ID.
func (c *Client) GetItem(ctx context.Context, collectionID, itemID string) (model.Doc, error) {
	u := c.base + "/collections/" + url.PathEscape(collectionID) + "/items/" + url.PathEscape(itemID)
	var out model.Doc
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	u := c.base + "/collections/" + url.PathEscape(collectionID) + "/items/" + url.PathEscape(itemID)
	return c.do(ctx, http.MethodDelete, u, nil, nil)
}

// SubmitCollection sends a finished collection payload. Create flows POST to
// the collections root; edit flows PUT to the record's canonical URL using
// the ID inside the payload.
func (c *Client) SubmitCollection(ctx context.Context, payload model.Doc, editMode bool) (model.Doc, error) {
	method := http.MethodPost
	u := c.base + "/collections"
	if editMode {
		id := model.StringField(payload, "id")
		if id == "" {
			return nil, fmt.Errorf("api: edit submission requires an id")
		}
		method = http.MethodPut
		u += "/" + url.PathEscape(id)
	}
	var out model.Doc
	if err := c.do(ctx, method, u, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitItem sends a finished item payload under its collection.
func (c *Client) SubmitItem(ctx context.Context, collectionID string, payload model.Doc, editMode bool) (model.Doc, error) {
	if collectionID == "" {
		return nil, fmt.Errorf("api: item submission requires a collection")
	}
	method := http.MethodPost
	u := c.base + "/collections/" + url.PathEscape(collectionID) + "/items"
	if editMode {
		id := model.StringField(payload, "id")
		if id == "" {
			return nil, fmt.Errorf("api: edit submission requires an id")
		}
		method = http.MethodPut
		u += "/" + url.PathEscape(id)
	}
	var out model.Doc
	if err := c.do(ctx, method, u, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("api: token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
