// Package common defines shared constants and sentinel errors used across
// the herocards client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// Service-level errors.
	ErrNoIdentity    = errors.New("no identity")
	ErrNotOwner      = errors.New("not the owner")
	ErrInvalidRecord = errors.New("invalid record")
)
