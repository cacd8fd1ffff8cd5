// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package settings

import (
	"errors"
	"fmt"
)

// # Resolution Errors

// MissingError is returned when a Required lookup exhausts every layer of the
// precedence chain. The message names the key and both ways of providing it.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf(
		"settings: required setting %q is not configured; set it via the settings API or as the %s environment variable",
		e.Key, e.Key,
	)
}

// IsMissing reports whether err is a [*MissingError].
func IsMissing(err error) bool {
	var target *MissingError
	return errors.As(err, &target)
}

// TypeError is returned when a stored or environment value cannot be cast to
// the kind the caller requested.
type TypeError struct {
	Key   string
	Raw   string
	Kind  Kind
	cause error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("settings: value %q for key %q cannot be cast to %s", e.Raw, e.Key, e.Kind)
}

func (e *TypeError) Unwrap() error {
	return e.cause
}

// IsTypeError reports whether err is a [*TypeError].
func IsTypeError(err error) bool {
	var target *TypeError
	return errors.As(err, &target)
}
