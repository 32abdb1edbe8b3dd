package domain

import "errors"

var (
	ErrAlreadyRegistered  = errors.New("connection already registered")
	ErrNotRegistered      = errors.New("connection not registered")
	ErrPersistFailed      = errors.New("message not persisted")
	ErrUnknownEvent       = errors.New("unknown event")
	ErrMalformedEvent     = errors.New("malformed event payload")
	ErrStoreNotConfigured = errors.New("message store credentials missing")
)
