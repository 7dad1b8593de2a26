package service

import (
	"errors"
)

var (
	ErrUnauthorized = errors.New("missing or invalid session token")

	ErrMissingEmail    = errors.New("email is required")
	ErrMissingPassword = errors.New("password is required")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEmailExists     = errors.New("email already exists")

	ErrMissingName     = errors.New("file name is required")
	ErrMissingType     = errors.New("file type is required")
	ErrMissingData     = errors.New("file data is required")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrNotFound        = errors.New("file not found")
	ErrFolderContent   = errors.New("folder has no content")
)
