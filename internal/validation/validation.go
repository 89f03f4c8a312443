package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"converge-backend/internal/apperr"

	"github.com/biter777/countries"
	"github.com/go-playground/validator"
)

// Validator wraps go-playground/validator with the custom rules used by the
// location and response inputs. It also satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report fields by their JSON name, as clients send them
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return IsCountry(fl.Field().String())
	})
	_ = v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		return IsTimeZone(fl.Field().String())
	})
	_ = v.RegisterValidation("jsondoc", func(fl validator.FieldLevel) bool {
		return json.Valid([]byte(fl.Field().String()))
	})

	return &Validator{validate: v}
}

// Validate runs the struct tags of i and collects every violation into a
// single validation error.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation(err.Error())
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return apperr.Validation(strings.Join(messages, "; "), messages...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required field", fe.Field())
	case "country":
		return "Not a valid country"
	case "timezone":
		return "Not a valid time zone"
	case "url":
		return "Please enter a valid image url"
	case "jsondoc":
		return fmt.Sprintf("%s must be a valid JSON document", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}

// RequireFields fails when any value is missing: nil, a nil pointer, a blank
// string or an empty slice. Violations are reported in field name order.
func (v *Validator) RequireFields(fields map[string]any) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var messages []string
	for _, name := range names {
		if isEmpty(fields[name]) {
			messages = append(messages, fmt.Sprintf("%s is required field", name))
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return apperr.Validation(strings.Join(messages, "; "), messages...)
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// IsCountry reports whether name is a known country name or ISO code.
func IsCountry(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return countries.ByName(name) != countries.Unknown
}

// IsTimeZone reports whether name is an IANA time zone. "Local" is rejected
// since it depends on the host.
func IsTimeZone(name string) bool {
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
