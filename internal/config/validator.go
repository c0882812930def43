package config

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator used across
// the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
			pattern := fl.Field().String()
			return pattern != "" && !strings.ContainsAny(pattern, "\x00")
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks a decoded configuration and reports the first violation as
// a field-scoped validation error.
func Validate(cfg *Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			first := verrs[0]
			return taikoerrors.NewValidationError(fieldPath(first), violationMessage(first), err)
		}
		return taikoerrors.NewValidationError("", err.Error(), err)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return strings.ToLower(path)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must not be empty"
	case "required":
		return "is required"
	default:
		return "failed rule " + fe.Tag()
	}
}
