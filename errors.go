package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to the structured errors this package returns.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeRegistrationFailed = "REGISTRATION_FAILED"
	TextCodeEmptyCredentials   = "EMPTY_CREDENTIALS"
	TextCodePersistence        = "SESSION_PERSISTENCE"
)

// Generic fallbacks used when the backend gives us no message to surface.
const (
	genericLoginFailure        = "Login failed"
	genericRegistrationFailure = "Registration failed"
)

// ErrInvalidCredentials is the error we return for rejected logins
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrRegistrationFailed is the error we return for rejected registrations
var ErrRegistrationFailed = goerrors.New("Registration failed", goerrors.CategoryValidation).
	WithTextCode(TextCodeRegistrationFailed).
	WithCode(goerrors.CodeBadRequest)

// ErrEmptyCredentials is returned before any broker call when either
// credential is missing; deeper format validation lives in the form layer
var ErrEmptyCredentials = goerrors.New("Email and password are required", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrSessionPersistence marks session store failures. It never reaches the
// user: AuthService absorbs it and degrades to the unauthenticated state.
var ErrSessionPersistence = goerrors.New("session store unavailable", goerrors.CategoryInternal).
	WithTextCode(TextCodePersistence).
	WithCode(goerrors.CodeInternal)

// AuthenticationError clones the invalid-credentials error with a
// human-readable message extracted from the backend response.
func AuthenticationError(message string) *goerrors.Error {
	return cloneWithMessage(ErrInvalidCredentials, message)
}

// RegistrationError clones the registration error with a human-readable
// message extracted from the backend response.
func RegistrationError(message string) *goerrors.Error {
	return cloneWithMessage(ErrRegistrationFailed, message)
}

// WrapAuthenticationError wraps a transport failure as an authentication
// error; message is generic when no response body was available.
func WrapAuthenticationError(err error, message string) *goerrors.Error {
	if message == "" {
		message = genericLoginFailure
	}
	return goerrors.Wrap(err, goerrors.CategoryAuth, message).
		WithTextCode(TextCodeInvalidCreds).
		WithCode(goerrors.CodeUnauthorized)
}

// WrapRegistrationError wraps a transport failure as a registration error
func WrapRegistrationError(err error, message string) *goerrors.Error {
	if message == "" {
		message = genericRegistrationFailure
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(TextCodeRegistrationFailed).
		WithCode(goerrors.CodeBadRequest)
}

// IsAuthenticationError will check for rejected logins
func IsAuthenticationError(err error) bool {
	return textCode(err) == TextCodeInvalidCreds || textCode(err) == TextCodeEmptyCredentials
}

// IsRegistrationError will check for rejected registrations
func IsRegistrationError(err error) bool {
	return textCode(err) == TextCodeRegistrationFailed
}

// ErrorMessage extracts the human-readable message the UI should show
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Message != "" {
		return rich.Message
	}
	return err.Error()
}

func textCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

func cloneWithMessage(base *goerrors.Error, message string) *goerrors.Error {
	clone := base.Clone()
	if clone == nil {
		return base
	}
	if message != "" {
		clone.Message = message
	}
	clone.Source = base
	return clone
}
