package book

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks in against the two payload rules. Fields are checked in
// declaration order, so a missing name wins over an oversized readPage.
func Validate(in Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	switch fieldErrs[0].Field() {
	case "Name":
		return ErrNameRequired
	case "ReadPage":
		return ErrReadPageExceeds
	default:
		return ErrValidation
	}
}
