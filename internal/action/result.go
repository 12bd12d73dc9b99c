// Package action runs backend mutations and folds every outcome, including
// errors and panics, into a Result envelope.
package action

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"semaphore/portal/internal/api"
)

// FallbackMessage is used when a failure carries no usable text.
const FallbackMessage = "Something went wrong!"

type Result[T any] struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    int             `json:"code,omitempty"`
	Data    *T              `json:"data,omitempty"`
	Errors  api.FieldErrors `json:"errors,omitempty"`
}

// Run calls fn once and normalises its outcome. A nil envelope with a nil
// error counts as success.
func Run[T any](ctx context.Context, defaultMessage string, fn func(context.Context) (*api.Envelope[T], error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				res = FromError[T](err)
				return
			}
			res = Result[T]{Success: false, Message: FallbackMessage, Code: 500}
		}
	}()

	env, err := fn(ctx)
	if err != nil {
		return FromError[T](err)
	}
	if env == nil {
		return Result[T]{Success: true, Message: defaultMessage}
	}
	res = Result[T]{
		Success: env.Success,
		Message: env.Message,
		Code:    env.Code,
		Data:    &env.Data,
		Errors:  env.Errors,
	}
	if res.Message == "" {
		res.Message = defaultMessage
	}
	return res
}

// FromError is the failure result for err. The code is always 500; field
// errors reported by the backend are kept.
func FromError[T any](err error) Result[T] {
	res := Result[T]{Success: false, Message: err.Error(), Code: 500}
	if res.Message == "" {
		res.Message = FallbackMessage
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		res.Errors = reqErr.Errors
	}
	return res
}

func (r Result[T]) String() string {
	return fmt.Sprintf("success=%t code=%d message=%q", r.Success, r.Code, r.Message)
}
