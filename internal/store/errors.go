package store

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBackendFailure  = errors.New("backend failure")
	ErrNotFound        = errors.New("record not found")
)
