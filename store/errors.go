// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "errors"

// Errors returned by the store, optionally wrapped. Handlers match them
// with errors.Is and translate them into HTTP responses.
var (
	ErrNotFound         = errors.New("registration not found")
	ErrAlreadyUsed      = errors.New("download link already used or unknown")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateEdition = errors.New("edition already registered")
	ErrDuplicateToken   = errors.New("token collision")
)
