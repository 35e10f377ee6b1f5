package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Issue describes one failing field.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is returned when input does not match its schema. It always carries
// at least one issue.
type Error struct {
	Issues []Issue `json:"issues"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		if i.Path == "" {
			parts = append(parts, i.Message)
			continue
		}

		parts = append(parts, fmt.Sprintf("%s: %s", i.Path, i.Message))
	}

	return "validation error: " + strings.Join(parts, "; ")
}

// NewError builds an *Error with a single issue.
func NewError(path, message string) *Error {
	return &Error{Issues: []Issue{{Path: path, Message: message}}}
}

var (
	validate    *validator.Validate
	validateErr error
	once        sync.Once
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// env names for configuration, json names for request payloads
	vld.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"env", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}

			if name != "" {
				return name
			}
		}

		return fld.Name
	})

	if err := vld.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		default:
			return true
		}
	}); err != nil {
		return nil, fmt.Errorf("validation: register finite rule error %w", err)
	}

	return vld, nil
}

// Validator returns the shared validator instance.
func Validator() (*validator.Validate, error) {
	once.Do(func() {
		validate, validateErr = initValidator()
	})

	return validate, validateErr
}

// ValidateStruct checks v against its validate tags and reports every failing
// field as an *Error.
func ValidateStruct(v any) error {
	vld, err := Validator()
	if err != nil {
		return err
	}

	if err := vld.Struct(v); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return fmt.Errorf("validation: validate struct error %w", err)
		}

		out := &Error{}
		for _, fe := range fieldErrors {
			out.Issues = append(out.Issues, Issue{Path: fe.Field(), Message: message(fe)})
		}

		return out
	}

	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "oneof":
		opts := strings.Fields(fe.Param())
		quoted := make([]string, 0, len(opts))
		for _, o := range opts {
			quoted = append(quoted, "'"+o+"'")
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(quoted, " | "), fe.Value())
	case "numeric", "number":
		return fmt.Sprintf("Expected number, received '%v'", fe.Value())
	case "finite":
		return "Number must be finite"
	case "hostname_port":
		return "Expected host:port address"
	default:
		return fmt.Sprintf("Failed '%s' check", fe.Tag())
	}
}

// FromDecodeError turns an encoding/json error into an *Error naming the
// offending field. Errors that are not json decode errors are returned as is.
func FromDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewError(typeErr.Field, fmt.Sprintf("Expected %s, received %s", jsonKind(typeErr.Type), typeErr.Value))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return NewError("", fmt.Sprintf("Invalid JSON at offset %d", syntaxErr.Offset))
	}

	if errors.Is(err, errEmptyBody) {
		return NewError("", "Expected object, received nothing")
	}

	return err
}

var errEmptyBody = errors.New("empty body")

// DecodeJSON unmarshals body into v, mapping decode failures to *Error.
func DecodeJSON(body []byte, v any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return FromDecodeError(errEmptyBody)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return FromDecodeError(err)
	}

	return nil
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
