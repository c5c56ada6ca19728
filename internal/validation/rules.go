// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"encoding/base64"
	"encoding/hex"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// AccountID validates the characters and length of a vault account identifier.
var AccountID = validation.NewStringRuleWithError(
	vaultDomain.ValidAccountID,
	validation.NewError(
		"validation_account_id",
		"must start with a letter or digit and contain only letters, digits, '.', '_' or '-' (max 128)",
	),
)

// Base64 validates standard base64. Empty strings pass; pair with Required when needed.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// Hex validates that a string is valid hex-encoded data.
var Hex = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := hex.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_hex", "must be valid hex-encoded data"),
)
