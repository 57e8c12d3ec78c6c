package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"go-inventory-api/pkg/pagination"
)

// ListQuery selects one page of a resource.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	// Filters are extra equality filters, e.g. kategori_id for Barang.
	Filters map[string]string
}

func (q ListQuery) key(entity string) Key {
	r := pagination.NewPageRequest(q.Page, q.PerPage, q.Search)
	return Key{
		Entity:  entity,
		Kind:    KindList,
		Page:    r.Page,
		PerPage: r.PerPage,
		Search:  r.Search,
		Filter:  encodeFilters(q.Filters),
	}
}

func encodeFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := url.Values{}
	for _, k := range keys {
		v.Set(k, filters[k])
	}
	return v.Encode()
}

// Resource is the CRUD surface of one entity. List goes through the cache;
// successful mutations invalidate the entity's cached lists.
type Resource[T any] struct {
	client *Client
	entity string
}

func newResource[T any](c *Client, entity string) *Resource[T] {
	return &Resource[T]{client: c, entity: entity}
}

func (r *Resource[T]) Entity() string {
	return r.entity
}

// Key is the cache key List uses for q.
func (r *Resource[T]) Key(q ListQuery) Key {
	return q.key(r.entity)
}

func (r *Resource[T]) List(ctx context.Context, q ListQuery) (*pagination.Page[T], error) {
	key := r.Key(q)
	v, err := r.client.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return r.fetchPage(ctx, key, q.Filters)
	})
	if err != nil {
		return nil, err
	}
	return v.(*pagination.Page[T]), nil
}

func (r *Resource[T]) fetchPage(ctx context.Context, key Key, filters map[string]string) (*pagination.Page[T], error) {
	query := map[string]string{
		"page":     strconv.Itoa(key.Page),
		"per_page": strconv.Itoa(key.PerPage),
	}
	if key.Search != "" {
		query["search"] = key.Search
	}
	for k, v := range filters {
		query[k] = v
	}

	var out envelope[pagination.Page[T]]
	if err := r.client.do(ctx, http.MethodGet, "/"+r.entity, nil, query, &out); err != nil {
		return nil, err
	}
	if out.Data.Data == nil {
		out.Data.Data = []T{}
	}
	return &out.Data, nil
}

func (r *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodGet, r.path(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts body (a struct or map) and returns the stored record.
func (r *Resource[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	var out envelope[T]
	if err := r.client.do(ctx, http.MethodPost, "/"+r.entity, body, nil, &out); err != nil {
		return nil, err
	}
	r.client.invalidate(r.entity)
	return &out.Data, nil
}

// Update sends only the fields present in body.
func (r *Resource[T]) Update(ctx context.Context, id uint, body interface{}) (*T, error) {
	var out envelope[T]
	if err := r.client.do(ctx, http.MethodPut, r.path(id), body, nil, &out); err != nil {
		return nil, err
	}
	r.client.invalidate(r.entity)
	return &out.Data, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	if err := r.client.do(ctx, http.MethodDelete, r.path(id), nil, nil, nil); err != nil {
		return err
	}
	r.client.invalidate(r.entity)
	return nil
}

func (r *Resource[T]) path(id uint) string {
	return fmt.Sprintf("/%s/%d", r.entity, id)
}
