package service

import "errors"

var (
	// ErrNotFound: the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner: the entity exists but belongs to another account.
	ErrNotOwner = errors.New("note does not belong to user")
)
