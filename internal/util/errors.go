package util

import "errors"

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrCredentialNotFound     = errors.New("credential not found")
	ErrUnknownRole            = errors.New("unknown credential role")
	ErrSealedStorage          = errors.New("credential file is sealed and no passphrase was given")
	ErrUnsupportedRoster      = errors.New("student roster must be a .csv or .xlsx file")
	ErrEmptyRoster            = errors.New("student roster has no rows")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrMissingToken           = errors.New("login response did not include a token")
	ErrFileTooLarge           = errors.New("file exceeds the upload size limit")
)

// ValidationError 在发起网络请求之前的表单校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Required(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
