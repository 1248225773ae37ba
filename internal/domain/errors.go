package domain

import "errors"

var (
	ErrUnauthorized        = errors.New("render service rejected or missing credential")
	ErrRateLimited         = errors.New("render service throttled the request")
	ErrUnavailable         = errors.New("render service unavailable")
	ErrGenerationInvariant = errors.New("concept generation invariant violated")
	ErrEmptyCredential     = errors.New("credential must not be empty")
	ErrNotFound            = errors.New("record not found")
)
