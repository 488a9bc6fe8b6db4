package ports

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")

	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidPath        = errors.New("invalid path")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrIsDirectory = errors.New("is a directory")
	ErrNoContent   = errors.New("no content")

	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
