package common

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the validator tags on a request payload and folds any
// violation into ErrValidation so the transport maps it to a 400.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("field %s failed on %s: %w", f.Field(), f.Tag(), ErrValidation)
		}
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}
	return nil
}
