// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package settings

import (
	"context"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
)

// ErrNotFound is returned by a [Store] when no row exists for the key.
// The resolver treats it as a signal to fall through to the next layer.
var ErrNotFound = apperr.NotFound("Setting")

// Store is the persistence boundary for settings.
type Store interface {
	// GetByKey returns the setting for key, or [ErrNotFound].
	GetByKey(ctx context.Context, key string) (*Setting, error)

	// Upsert creates the setting or, if the key already exists, replaces its
	// value and description in place.
	Upsert(ctx context.Context, setting *Setting) error

	// DeleteByKey removes the setting. Deleting an absent key is not an error.
	DeleteByKey(ctx context.Context, key string) error

	// List returns every stored setting ordered by key.
	List(ctx context.Context) ([]Setting, error)
}
