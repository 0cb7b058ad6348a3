// Package validation wires go-playground/validator into gin and converts its errors into field maps.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
)

// NonFieldErrors collects errors that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ReservedUsernames cannot be registered because they shadow routes.
var ReservedUsernames = []string{"me"}

// Validator wraps go-playground/validator with our tag names and rules.
type Validator struct {
	v *validator.Validate
}

// New creates a standalone validator.
func New() *Validator {
	v := validator.New()
	configure(v)
	return &Validator{v: v}
}

// Setup installs the same configuration on gin's binding engine.
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	configure(v)
	return nil
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// registration only fails on empty tags
	_ = v.RegisterValidation("slug", matches(slugPattern))
	_ = v.RegisterValidation("color", matches(colorPattern))
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !usernamePattern.MatchString(value) {
			return false
		}
		for _, reserved := range ReservedUsernames {
			if strings.EqualFold(value, reserved) {
				return false
			}
		}
		return true
	})
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

// Validate validates a struct and returns the error untouched. Use FieldErrors to render it.
func (v *Validator) Validate(s any) error {
	return v.v.Struct(s)
}

// FieldErrors converts a binding or validation error into a field map.
// ok is false for errors not caused by the request payload.
func FieldErrors(err error) (apperrors.FieldErrors, bool) {
	fields := apperrors.FieldErrors{}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			fields.Add(fieldName(e), friendlyMessage(e))
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		name := typeErr.Field
		if name == "" {
			name = NonFieldErrors
		}
		fields.Add(name, fmt.Sprintf("Expected a value of type %s.", typeErr.Type))
		return fields, true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		fields.Add(NonFieldErrors, "Malformed JSON body.")
		return fields, true
	}

	return nil, false
}

// fieldName returns the top level request field of a possibly nested error.
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		ns = ns[:i]
	}
	if ns == "" {
		return e.Field()
	}
	return ns
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "oneof":
		return "Must be one of: " + e.Param() + "."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "color":
		return "Enter a valid hex color, e.g. #49B64E."
	case "username":
		return "Enter a valid username. It may contain letters, numbers and @/./+/-/_ characters."
	default:
		return "Invalid value."
	}
}
