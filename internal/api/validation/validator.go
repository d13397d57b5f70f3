package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knottin/enquiry-api/internal/api/dto/common"
)

// New returns a validator that reports fields by their JSON names
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// jsonFieldName reads the json tag so errors name the wire field, not the Go field
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// FormatValidationError formats validation errors into field-level details
func FormatValidationError(err error) []common.ValidationError {
	var details []common.ValidationError
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, common.ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
	}
	return details
}

// FieldNames lists the fields that failed validation
func FieldNames(err error) []string {
	var names []string
	for _, detail := range FormatValidationError(err) {
		names = append(names, detail.Field)
	}
	return names
}
