package identity

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxNameLength is the longest display name accepted, in runes.
	MaxNameLength = 24
)

// Identity is a display name that passed Validate.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// IsZero reports whether no identity is set.
func (i Identity) IsZero() bool {
	return i == ""
}

type Reason int

const (
	ReasonEmpty Reason = iota
	ReasonTooLong
	ReasonInvalidCharacters
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonTooLong:
		return "too-long"
	case ReasonInvalidCharacters:
		return "invalid-characters"
	}
	return "unknown"
}

// ValidationError describes why a candidate name was rejected.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "name is required"
	case ReasonTooLong:
		return fmt.Sprintf("name must be %d characters or fewer", MaxNameLength)
	default:
		return "name may only contain letters, digits, spaces, '_', '.' and '-'"
	}
}

func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

const displayNameTag = "displayname"

func newEngine(tag string) (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return isDisplayName(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register %q validation: %v", tag, err)
	}
	return v, nil
}

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v, err := newEngine(displayNameTag)
		if err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

func isDisplayName(name string) bool {
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == ' ', r == '_', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}

// Validate trims candidate and checks it against the display name rules.
func Validate(candidate string) (Identity, error) {
	trimmed := strings.TrimSpace(candidate)
	err := engine().Var(trimmed, fmt.Sprintf("required,max=%d,%s", MaxNameLength, displayNameTag))
	if err == nil {
		return Identity(trimmed), nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Tag() {
		case "required":
			return "", &ValidationError{Reason: ReasonEmpty}
		case "max":
			return "", &ValidationError{Reason: ReasonTooLong}
		default:
			return "", &ValidationError{Reason: ReasonInvalidCharacters}
		}
	}
	return "", fmt.Errorf("failed to validate name: %v", err)
}
