package services

import (
	"fmt"

	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// FieldError is a validation failure attributable to one input field. Its kind
// (errors.NotFound or errors.NotValid) decides the HTTP status.
type FieldError struct {
	Field   string
	Message string
	kind    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.kind
}

func newFieldError(kind error, field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, kind: kind}
}

func invalidField(field, message string) *FieldError {
	return newFieldError(errors.NotValid, field, message)
}

var (
	ErrNoCart    = newFieldError(errors.NotFound, "cart_id", "no cart with this id")
	ErrEmptyCart = newFieldError(errors.NotValid, "cart_id", "cart is empty")
)

// ErrInUse is returned when a delete would orphan dependent records.
const ErrInUse = repositories.ErrInUse

// Viewer is the identity a read is performed on behalf of.
type Viewer struct {
	UserID  uuid.UUID
	IsStaff bool
}
