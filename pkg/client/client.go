// Package client is a Go client for the inventory API with a query cache
// that mirrors how the web UI fetches and invalidates data.
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// dependents lists entities whose cached rows embed data of the key entity.
var dependents = map[string][]string{
	EntityKategori: {EntityBarang},
	EntitySupplier: {EntityBarang},
}

type Client struct {
	baseURL string
	http    *resty.Client
	session *Session
	cache   *Cache
	log     *zap.Logger

	staleTime time.Duration

	kategori *Resource[Kategori]
	supplier *Resource[Supplier]
	barang   *Resource[Barang]
}

type Option func(*Client)

// WithSession shares a session between clients.
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithStaleTime overrides the 5 minute freshness window.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

// New creates a client for the server at baseURL (scheme, host and port; the API lives under /api).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:   baseURL,
		http:      resty.New().SetBaseURL(baseURL+"/api").SetHeader("Accept", "application/json").SetTimeout(30 * time.Second),
		staleTime: DefaultStaleTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession("")
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.cache = NewCache(c.staleTime, c.log.Named("cache"))

	c.kategori = newResource[Kategori](c, EntityKategori)
	c.supplier = newResource[Supplier](c, EntitySupplier)
	c.barang = newResource[Barang](c, EntityBarang)
	return c
}

func (c *Client) Session() *Session             { return c.session }
func (c *Client) Cache() *Cache                 { return c.cache }
func (c *Client) Kategori() *Resource[Kategori] { return c.kategori }
func (c *Client) Supplier() *Resource[Supplier] { return c.supplier }
func (c *Client) Barang() *Resource[Barang]     { return c.barang }

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password, confirmation string) error {
	return c.do(ctx, http.MethodPost, "/register", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}, nil, nil)
}

// Login stores the issued token in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, nil, &out); err != nil {
		return err
	}
	c.cache.Clear()
	c.session.SetToken(out.Token)
	return nil
}

// Logout revokes the token on the server, then forgets it and every cached query.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
	c.session.Clear()
	c.cache.Clear()
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListKategori returns the Kategori dropdown options, cached like list pages.
func (c *Client) ListKategori(ctx context.Context) ([]Lookup, error) {
	return c.lookups(ctx, EntityKategori, "/barang/listkategori")
}

// ListSupplier returns the Supplier dropdown options.
func (c *Client) ListSupplier(ctx context.Context) ([]Lookup, error) {
	return c.lookups(ctx, EntitySupplier, "/barang/listsupplier")
}

func (c *Client) lookups(ctx context.Context, entity, path string) ([]Lookup, error) {
	v, err := c.cache.Get(ctx, Key{Entity: entity, Kind: KindLookup}, func(ctx context.Context) (interface{}, error) {
		var out envelope[[]Lookup]
		if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
			return nil, err
		}
		return out.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Lookup), nil
}

// invalidate drops cached queries of entity and of the entities that embed it.
func (c *Client) invalidate(entity string) {
	c.cache.Invalidate(append([]string{entity}, dependents[entity]...)...)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, query map[string]string, result interface{}) error {
	var apiErr errorBody

	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if token := c.session.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.IsError() {
		e := &APIError{Status: resp.StatusCode(), Message: apiErr.Message, Errors: apiErr.Errors}
		if e.Message == "" {
			e.Message = apiErr.Error
		}
		if e.IsUnauthenticated() {
			c.session.Clear()
			c.cache.Clear()
		}
		c.log.Debug("api error", zap.String("method", method), zap.String("path", path), zap.Int("status", e.Status))
		return e
	}
	return nil
}
