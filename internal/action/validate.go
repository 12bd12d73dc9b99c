package action

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"semaphore/portal/internal/api"
)

const validationMessage = "Validation failed"

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validate returns nil when payload passes its struct tags, and the backend
// style field errors otherwise.
func validate(v *validator.Validate, payload interface{}) api.FieldErrors {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return api.FieldErrors{"payload": {"The payload is invalid."}}
	}
	out := make(api.FieldErrors, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format Y-m-d.", name)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}
