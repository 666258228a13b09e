package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// configValidate is the validator instance for configuration structs.
// Initialized in init() with custom validators.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())

	// glob: the string is a valid doublestar pattern
	_ = configValidate.RegisterValidation("glob", validateGlob)
}

func validateGlob(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}

// Validate checks cfg against its struct tags. The returned error is
// ErrConfigInvalid listing every offending field.
func Validate(cfg *Config) error {
	err := configValidate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid configuration")
	}

	problems := make([]string, 0, len(fieldErrs))
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		fields = append(fields, field)
		problems = append(problems, describe(field, fe))
	}

	return errors.Newf(errors.ErrConfigInvalid, "invalid configuration: %s", strings.Join(problems, "; ")).
		WithDetail("fields", fields)
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "glob":
		return fmt.Sprintf("%s is not a valid glob: %v", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "unique":
		return fmt.Sprintf("%s has duplicate %s values", field, strings.ToLower(fe.Param()))
	case "excludesall", "excludes":
		return fmt.Sprintf("%s must not contain %q", field, fe.Param())
	default:
		return fmt.Sprintf("%s fails %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}
