package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Resource is the CRUD client for one REST collection, e.g. /batches.
type Resource[T any] struct {
	client *Client
	path   string
	tag    string
}

func NewResource[T any](client *Client, path string) *Resource[T] {
	path = "/" + strings.Trim(path, "/")
	return &Resource[T]{client: client, path: path, tag: strings.TrimPrefix(path, "/")}
}

// Tag is the cache tag every read of this collection is stored under.
func (r *Resource[T]) Tag() string {
	return r.tag
}

func (r *Resource[T]) List(ctx context.Context, q Query) (*Envelope[Page[T]], error) {
	var out Envelope[Page[T]]
	if err := r.client.Do(ctx, http.MethodGet, r.path, q, nil, &out, WithTags(r.tag)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*Envelope[T], error) {
	var out Envelope[T]
	if err := r.client.Do(ctx, http.MethodGet, r.item(id), nil, nil, &out, WithTags(r.tag)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Create(ctx context.Context, payload interface{}) (*Envelope[T], error) {
	var out Envelope[T]
	if err := r.client.Do(ctx, http.MethodPost, r.path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload interface{}) (*Envelope[T], error) {
	var out Envelope[T]
	if err := r.client.Do(ctx, http.MethodPut, r.item(id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) (*Envelope[json.RawMessage], error) {
	var out Envelope[json.RawMessage]
	if err := r.client.Do(ctx, http.MethodDelete, r.item(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Invalidate drops cached reads of this collection.
func (r *Resource[T]) Invalidate(ctx context.Context) error {
	return r.client.Invalidate(ctx, r.tag)
}

// Fetch and FetchOne share the cache of List and Get but skip decoding, so
// fields T does not declare survive the relay.
func (r *Resource[T]) Fetch(ctx context.Context, q Query) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Do(ctx, http.MethodGet, r.path, q, nil, &out, WithTags(r.tag)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) FetchOne(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Do(ctx, http.MethodGet, r.item(id), nil, nil, &out, WithTags(r.tag)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
