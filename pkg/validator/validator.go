// Package validator decodes and checks request bodies with
// go-playground/validator, reporting field errors by their JSON path.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/kitchenledger/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// notblank rejects strings made only of whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ErrorBody is the 422 response for a request that failed validation.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// Validate checks s against its validate tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors maps each failing field, e.g. "lines[0].quantity",
// to a readable message. Errors that are not validation errors yield an
// empty map.
func FormatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[jsonPath(fe)] = message(fe)
	}
	return out
}

func jsonPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"notblank": "Must not be blank",
	"uuid":     "Must be a valid UUID",
	"uuid4":    "Must be a valid UUID",
	"numeric":  "Must be a numeric value",
	"alphanum": "Must contain only letters and numbers",
	"url":      "Must be a valid URL",
	"email":    "Must be a valid email address",
	"unique":   "Must not contain duplicates",
}

var paramMessages = map[string]string{
	"min":              "Minimum length is %s",
	"max":              "Maximum length is %s",
	"len":              "Length must be %s",
	"gt":               "Must be greater than %s",
	"gte":              "Must be greater than or equal to %s",
	"lt":               "Must be less than %s",
	"lte":              "Must be less than or equal to %s",
	"required_with":    "Required when %s is set",
	"required_without": "Set exactly one of this field and %s",
	"excluded_with":    "Set exactly one of this field and %s",
}

func message(fe validator.FieldError) string {
	tag := fe.Tag()
	if m, ok := fixedMessages[tag]; ok {
		return m
	}
	if tag == "oneof" {
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	if f, ok := paramMessages[tag]; ok {
		// min and max describe a count for slices and a bound for numbers.
		if (tag == "min" || tag == "max") && fe.Kind() != reflect.String {
			return numericBound(tag, fe)
		}
		return fmt.Sprintf(f, fe.Param())
	}
	return fmt.Sprintf("Validation failed on '%s'", tag)
}

func numericBound(tag string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if tag == "min" {
			return fmt.Sprintf("Must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("Must contain at most %s item(s)", fe.Param())
	default:
		if tag == "min" {
			return fmt.Sprintf("Must be at least %s", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	}
}

// ValidateRequest decodes the JSON body into T and validates it. On failure
// it writes the error response and returns false: 413 for an oversized
// body, 400 for malformed JSON, 422 for field errors.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, ErrorBody{
			Error:  "Validation failed",
			Fields: FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
