package repository

import (
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrFileNotFound    = errors.New("file not found")
	ErrSessionNotFound = errors.New("session not found")
)
