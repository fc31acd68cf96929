package service

import "errors"

// ValidationError is a client-side input failure. It never reaches the
// provider and maps to a 4xx status.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNotAuthenticated   = errors.New("you are not logged in, please login")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
)
