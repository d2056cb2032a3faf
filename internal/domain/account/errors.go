package account

import "errors"

var (
	ErrManagerNotFound    = errors.New("manager not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid activation token")
	ErrAlreadyActivated   = errors.New("account already activated")
)
