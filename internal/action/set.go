package action

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-playground/validator/v10"

	"semaphore/portal/internal/api"
)

// Observer is told about every finished action.
type Observer func(ctx context.Context, resource, operation string, res Result[json.RawMessage])

// Set holds the create, update and delete actions of one resource. T is the
// record the backend returns and I the form payload.
type Set[T any, I any] struct {
	label    string
	resource *api.Resource[T]
	validate *validator.Validate
	observe  Observer
}

func NewSet[T any, I any](label string, resource *api.Resource[T], opts ...SetOption) *Set[T, I] {
	cfg := setConfig{observe: func(context.Context, string, string, Result[json.RawMessage]) {}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.validate == nil {
		cfg.validate = newValidator()
	}
	return &Set[T, I]{label: label, resource: resource, validate: cfg.validate, observe: cfg.observe}
}

type setConfig struct {
	validate *validator.Validate
	observe  Observer
}

type SetOption func(*setConfig)

func withValidator(v *validator.Validate) SetOption {
	return func(c *setConfig) {
		c.validate = v
	}
}

func WithObserver(fn Observer) SetOption {
	return func(c *setConfig) {
		if fn != nil {
			c.observe = fn
		}
	}
}

func (s *Set[T, I]) Resource() string {
	return s.resource.Tag()
}

func (s *Set[T, I]) Create(ctx context.Context, input I) Result[T] {
	if errs := validate(s.validate, input); errs != nil {
		return s.finish(ctx, "create", invalid[T](errs))
	}
	res := Run(ctx, s.label+" created successfully", func(ctx context.Context) (*api.Envelope[T], error) {
		return s.resource.Create(ctx, input)
	})
	return s.finish(ctx, "create", res)
}

func (s *Set[T, I]) Update(ctx context.Context, id string, input I) Result[T] {
	if errs := validate(s.validate, input); errs != nil {
		return s.finish(ctx, "update", invalid[T](errs))
	}
	res := Run(ctx, s.label+" updated successfully", func(ctx context.Context) (*api.Envelope[T], error) {
		return s.resource.Update(ctx, id, input)
	})
	return s.finish(ctx, "update", res)
}

func (s *Set[T, I]) Delete(ctx context.Context, id string) Result[json.RawMessage] {
	res := Run(ctx, s.label+" deleted successfully", func(ctx context.Context) (*api.Envelope[json.RawMessage], error) {
		return s.resource.Delete(ctx, id)
	})
	return settle(ctx, s, "delete", res)
}

// CreateJSON, UpdateJSON and DeleteByID serve the Endpoint interface for
// callers that only hold a raw request body.
func (s *Set[T, I]) CreateJSON(ctx context.Context, body []byte) interface{} {
	var input I
	if err := json.Unmarshal(body, &input); err != nil {
		return s.finish(ctx, "create", badPayload[T]())
	}
	return s.Create(ctx, input)
}

func (s *Set[T, I]) UpdateJSON(ctx context.Context, id string, body []byte) interface{} {
	var input I
	if err := json.Unmarshal(body, &input); err != nil {
		return s.finish(ctx, "update", badPayload[T]())
	}
	return s.Update(ctx, id, input)
}

func (s *Set[T, I]) DeleteByID(ctx context.Context, id string) interface{} {
	return s.Delete(ctx, id)
}

func (s *Set[T, I]) finish(ctx context.Context, operation string, res Result[T]) Result[T] {
	return settle(ctx, s, operation, res)
}

// settle invalidates cached reads after a successful mutation and reports
// the result to the observer.
func settle[T any, I any, R any](ctx context.Context, s *Set[T, I], operation string, res Result[R]) Result[R] {
	if res.Success {
		if err := s.resource.Invalidate(ctx); err != nil {
			log.Printf("invalidate %s after %s: %v", s.resource.Tag(), operation, err)
		}
	}
	s.observe(ctx, s.resource.Tag(), operation, Result[json.RawMessage]{
		Success: res.Success,
		Message: res.Message,
		Code:    res.Code,
		Errors:  res.Errors,
	})
	return res
}

func invalid[T any](errs api.FieldErrors) Result[T] {
	return Result[T]{Success: false, Message: validationMessage, Code: 422, Errors: errs}
}

func badPayload[T any]() Result[T] {
	return Result[T]{Success: false, Message: "Invalid request payload", Code: 400}
}
