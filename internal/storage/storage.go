package storage

import "errors"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrWeddingNotFound = errors.New("wedding not found")
	ErrTaskNotFound    = errors.New("task not found")
)
