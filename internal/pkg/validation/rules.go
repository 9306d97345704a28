package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Phone numbers allow digits with optional separators and a leading +
	PhonePattern = `^\+?[0-9(][0-9 ()\-]{5,18}[0-9]$`
)

// PhoneMaxLength matches the width of the coordinators.phone column
const PhoneMaxLength = 20

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// IsPhone reports whether value looks like a phone number
func IsPhone(value string) bool {
	value = strings.TrimSpace(value)
	return len(value) <= PhoneMaxLength && CompiledPatterns.Phone.MatchString(value)
}

// IsNotBlank reports whether value has at least one non-space character
func IsNotBlank(value string) bool {
	return strings.IndexFunc(value, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return IsNotBlank(field.String())
}

// jsonFieldName reports fields by their JSON name so errors match the request body
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Register installs the custom tags on v
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return fmt.Errorf("register phone validation: %w", err)
	}
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		return fmt.Errorf("register notblank validation: %w", err)
	}
	return nil
}

// RegisterWithGin installs the custom tags on gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
