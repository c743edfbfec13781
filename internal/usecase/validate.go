package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks struct tags and wraps any failure into domain.ErrValidation.
func validateInput(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		parts := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			parts = append(parts, fmt.Sprintf("%s %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
