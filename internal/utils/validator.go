package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
}

// ValidateStruct runs struct tag validation and returns a field -> message
// map, or nil when the value is valid.  Field names come from json tags.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	out := make(map[string]string)
	if ves, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ves {
			out[fieldPath(fe)] = errorMessage(fe)
		}
		return out
	}
	out["_"] = err.Error()
	return out
}

// FormatValidationErrors joins the map into one stable, human-readable line.
func FormatValidationErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, errs[k]))
	}
	return strings.Join(msgs, "; ")
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min", "gte":
		return fmt.Sprintf("Minimum is %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Maximum is %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return fmt.Sprintf("Must be a date in %s format", fe.Param())
	case "iso3166_1_alpha2":
		return "Must be a two-letter country code"
	default:
		return fmt.Sprintf("Invalid %s field", fe.Field())
	}
}
