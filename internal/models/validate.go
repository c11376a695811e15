// ABOUTME: Struct validation for user-supplied payloads.
// ABOUTME: Wraps go-playground/validator so failures read as precondition errors.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrPrecondition, strings.Join(msgs, "; "))
}
