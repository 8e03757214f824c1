package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/formation-app/centre-server/service"
)

func isServiceConflict(err error) bool {
	return errors.Is(err, service.ErrDuplicateEmail) ||
		errors.Is(err, service.ErrDuplicateCode)
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

// requiredUUID is a validation rule for uuid fields, whose zero value is
// a 16 byte array the stock Required rule never considers empty.
func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}
