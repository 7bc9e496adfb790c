package validation

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"catalog/internal/apperrors"
	"catalog/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// utf16max measures length in UTF-16 code units, so an emoji counts twice.
	if err := v.RegisterValidation("utf16max", utf16Max); err != nil {
		panic(err)
	}
	return v
}

func utf16Max(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return UTF16Len(fl.Field().String()) <= limit
}

// UTF16Len is the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// productLimits carries the storage length constraints checked after the
// required-field rules.
type productLimits struct {
	Name        string `validate:"utf16max=100"`
	Description string `validate:"utf16max=500"`
}

var limitMessages = map[string]string{
	"Name":        "Product name cannot exceed 100 characters",
	"Description": "Description cannot exceed 500 characters",
}

// CategoryList is the human-readable list of valid categories.
func CategoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// ValidateProduct checks a create or update payload and collects every
// violation into a single ValidationError, messages joined by ", ".
func ValidateProduct(p models.ProductPayload) error {
	var errs []string

	name := trimmed(p.Name)
	if name == "" {
		errs = append(errs, "Product name is required")
	}
	if trimmed(p.Description) == "" {
		errs = append(errs, "Product description is required")
	}

	if p.Price == nil {
		errs = append(errs, "Product price is required")
	} else if price, ok := Number(p.Price); !ok || price < 0 {
		errs = append(errs, "Price must be a positive number")
	}

	if trimmed(p.Category) == "" {
		errs = append(errs, "Product category is required")
	}
	// A blank but non-empty category fails both rules.
	if p.Category != nil && *p.Category != "" && !models.Category(*p.Category).Valid() {
		errs = append(errs, "Category must be one of: "+CategoryList())
	}

	limits := productLimits{Name: name}
	if p.Description != nil {
		limits.Description = *p.Description
	}
	if err := validate.Struct(limits); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				errs = append(errs, limitMessages[fe.Field()])
			}
		}
	}

	if len(errs) > 0 {
		return apperrors.NewValidation(strings.Join(errs, ", "))
	}
	return nil
}

// Number converts a decoded JSON value to float64. Only JSON numbers qualify.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
