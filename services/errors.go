package services

import "errors"

// Ошибки, по которым хендлеры выбирают HTTP статус (errors.Is).
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("too many requests")
)
