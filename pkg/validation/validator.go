package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Request limits
	MaxDocuments       = 100000
	MaxWordsPerDoc     = 10000
	MaxWordRunes       = 256
	MaxCategoryRunes   = 200
	MaxDictionaryItems = 100000
)

func init() {
	validate = validator.New()
}

// Struct validates v against its `validate` struct tags. Failures wrap
// ErrInvalidConfiguration.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, formatValidationError(err))
	}
	return nil
}

// ValidateDocuments checks the size limits of a word-list document set.
// An empty set is valid; it produces an insufficient-data result downstream.
func ValidateDocuments(docs [][]string) error {
	if len(docs) > MaxDocuments {
		return fmt.Errorf("documents: maximum %d documents allowed, got %d", MaxDocuments, len(docs))
	}
	for i, doc := range docs {
		if len(doc) > MaxWordsPerDoc {
			return fmt.Errorf("documents[%d]: maximum %d words allowed, got %d", i, MaxWordsPerDoc, len(doc))
		}
		for _, w := range doc {
			if err := ValidateWord(w); err != nil {
				return fmt.Errorf("documents[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// ValidateWord rejects words that are not valid UTF-8 or exceed MaxWordRunes.
func ValidateWord(w string) error {
	if !utf8.ValidString(w) {
		return errors.New("word is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(w); n > MaxWordRunes {
		return fmt.Errorf("word exceeds maximum length of %d characters (got %d)", MaxWordRunes, n)
	}
	return nil
}

// ValidateCategory validates a category name used to split records.
func ValidateCategory(name string) error {
	if !utf8.ValidString(name) {
		return errors.New("category is not valid UTF-8")
	}
	if utf8.RuneCountInString(name) > MaxCategoryRunes {
		return fmt.Errorf("category exceeds maximum length of %d characters", MaxCategoryRunes)
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return errors.New("category contains control characters")
	}
	return nil
}

// ValidateDictionary checks an id to label mapping.
func ValidateDictionary(dict map[string]string) error {
	if len(dict) > MaxDictionaryItems {
		return fmt.Errorf("dictionary: maximum %d entries allowed, got %d", MaxDictionaryItems, len(dict))
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
