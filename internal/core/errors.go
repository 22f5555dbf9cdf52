package core

import "errors"

var (
	// ErrMissingField means a login request lacked a name or password.
	ErrMissingField = errors.New("missing name or password")
	// ErrIncorrectPassword means the supplied password did not match the
	// registered credential hash.
	ErrIncorrectPassword = errors.New("incorrect password")
)
