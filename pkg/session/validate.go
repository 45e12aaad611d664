package session

import (
	goerrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/octra-labs/wallet-simulator-go/pkg/mnemonic"
)

var validate = validator.New()

func init() {
	err := validate.RegisterValidation("mnemonic", isMnemonic)
	if err != nil {
		panic(err)
	}
}

// validateRequest rejects malformed payloads at the boundary so the
// simulator only ever sees well-formed input.
func validateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err != nil {
		errs := err.(validator.ValidationErrors)
		return goerrors.Join(errs)
	}
	return nil
}

func isMnemonic(fl validator.FieldLevel) bool {
	return mnemonic.Validate(fl.Field().String())
}
