// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/durfee/passwords/internal/validation"
)

// CreateAccountRequest contains the parameters for storing a new account.
// The password arrives already encrypted; key is the wrapped session key and
// iv the initialization vector of the envelope, all base64 encoded.
type CreateAccountRequest struct {
	Key        string `json:"key"`
	IV         string `json:"iv"`
	DomainName string `json:"domainName"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// Validate checks if the create account request is valid.
func (r *CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key, validation.Required, customValidation.Base64),
		validation.Field(&r.IV, validation.Required, customValidation.Base64),
		validation.Field(&r.DomainName, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required, customValidation.Base64),
	)
}

// SetPasswordRequest contains the parameters for replacing an account's
// password. A fresh envelope means a fresh wrapped key and iv.
type SetPasswordRequest struct {
	Key      string `json:"key"`
	IV       string `json:"iv"`
	Password string `json:"password"`
}

// Validate checks if the set password request is valid.
func (r *SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key, validation.Required, customValidation.Base64),
		validation.Field(&r.IV, validation.Required, customValidation.Base64),
		validation.Field(&r.Password, validation.Required, customValidation.Base64),
	)
}

// SetUsernameRequest contains the parameters for replacing an account's username.
type SetUsernameRequest struct {
	Username string `json:"username"`
}

// Validate checks if the set username request is valid.
func (r *SetUsernameRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
	)
}
