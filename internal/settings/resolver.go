// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package settings

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/pollenlabs/pollen/internal/platform/ctxutil"
)

// # Resolver

// Options controls how a lookup behaves when no layer yields a value.
type Options struct {
	// Required makes the lookup fail with [*MissingError] instead of
	// returning a zero value.
	Required bool
	// Default is returned when the store, environment and override layers
	// all miss. nil means no default.
	Default *Value
}

// Resolver resolves configuration values through the precedence chain.
//
// The override map is injected at construction and is reserved for values
// that must survive an empty database AND an empty environment, such as the
// bootstrap operator list. Overrides are returned verbatim without casting.
type Resolver struct {
	store     Store
	overrides map[string]Value
}

func NewResolver(store Store, overrides map[string]Value) *Resolver {
	if overrides == nil {
		overrides = map[string]Value{}
	}
	return &Resolver{store: store, overrides: overrides}
}

// DefaultOverrides returns the baked-in override list used in production.
//
// Only the bootstrap operator list lives here: these accounts must be
// creatable on a fresh deployment before anyone can reach the settings API.
func DefaultOverrides() map[string]Value {
	return map[string]Value{
		KeySuperAdminEmails: List([]string{
			"maya@pollenlabs.io",
			"jonas@pollenlabs.io",
		}),
	}
}

/*
Get resolves key to a typed value.

Description: Walks the precedence chain in order and returns the first hit:

 1. Persistent store — the stored string is cast to kind.
 2. Environment variable of the same name — cast to kind. A variable that is
    set to the empty string still counts as present.
 3. Injected override map — returned verbatim, no casting.
 4. opts.Default, when non-nil.
 5. [*MissingError] when opts.Required, else the zero value for kind.

A store that is unreachable (down, not yet migrated) is treated as a miss so
that resolution keeps working during bootstrap; the failure is logged.

Parameters:
  - ctx: context.Context
  - key: string
  - kind: Kind
  - opts: Options

Returns:
  - Value: Typed result
  - error: *TypeError or *MissingError
*/
func (resolver *Resolver) Get(ctx context.Context, key string, kind Kind, opts Options) (Value, error) {

	// 1. Persistent store wins over everything
	stored, err := resolver.store.GetByKey(ctx, key)
	if err == nil {
		return Cast(key, stored.Value, kind)
	}
	if !errors.Is(err, ErrNotFound) {
		// Store unavailable: fall through rather than break resolution.
		ctxutil.GetLogger(ctx).Warn("settings store unavailable, falling back",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	// 2. Environment variable of the same name
	if raw, ok := os.LookupEnv(key); ok {
		return Cast(key, raw, kind)
	}

	// 3. Injected override list, verbatim
	if v, ok := resolver.overrides[key]; ok {
		return v, nil
	}

	// 4. Caller-supplied default
	if opts.Default != nil {
		return *opts.Default, nil
	}

	// 5. Required lookups fail loudly; optional ones return a typed zero
	if opts.Required {
		return Value{}, &MissingError{Key: key}
	}
	return Value{Kind: kind}, nil
}

// # Typed Getters

// Secret resolves a required string, failing with [*MissingError] when the
// key is configured nowhere. Use for credentials that must never silently
// default.
func (resolver *Resolver) Secret(ctx context.Context, key string) (string, error) {
	v, err := resolver.Get(ctx, key, KindString, Options{Required: true})
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

// StringOr resolves an optional string with a fallback.
func (resolver *Resolver) StringOr(ctx context.Context, key, fallback string) (string, error) {
	def := String(fallback)
	v, err := resolver.Get(ctx, key, KindString, Options{Default: &def})
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

// BoolOr resolves an optional boolean with a fallback.
func (resolver *Resolver) BoolOr(ctx context.Context, key string, fallback bool) (bool, error) {
	def := Bool(fallback)
	v, err := resolver.Get(ctx, key, KindBool, Options{Default: &def})
	if err != nil {
		return false, err
	}
	return v.Bool, nil
}

// IntOr resolves an optional integer with a fallback.
func (resolver *Resolver) IntOr(ctx context.Context, key string, fallback int) (int, error) {
	def := Int(fallback)
	v, err := resolver.Get(ctx, key, KindInt, Options{Default: &def})
	if err != nil {
		return 0, err
	}
	return v.Int, nil
}

// ListOr resolves an optional string list. A nil fallback yields an empty
// (non-nil) slice on a complete miss.
func (resolver *Resolver) ListOr(ctx context.Context, key string, fallback []string) ([]string, error) {
	def := List(fallback)
	v, err := resolver.Get(ctx, key, KindList, Options{Default: &def})
	if err != nil {
		return nil, err
	}
	if v.List == nil {
		return []string{}, nil
	}
	return v.List, nil
}

// DictOr resolves an optional string map. A nil fallback yields an empty
// (non-nil) map on a complete miss.
func (resolver *Resolver) DictOr(ctx context.Context, key string, fallback map[string]string) (map[string]string, error) {
	def := Dict(fallback)
	v, err := resolver.Get(ctx, key, KindDict, Options{Default: &def})
	if err != nil {
		return nil, err
	}
	if v.Dict == nil {
		return map[string]string{}, nil
	}
	return v.Dict, nil
}

// # Writes

// Set serializes value and upserts it under key. Booleans are stored as the
// literals "True"/"False"; lists and dicts are stored as JSON.
func (resolver *Resolver) Set(ctx context.Context, key string, value Value, description string) (*Setting, error) {
	raw, err := Serialize(value)
	if err != nil {
		return nil, err
	}

	setting := &Setting{Key: key, Value: raw, Description: description}
	if err := resolver.store.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

// Delete removes key from the store. Subsequent lookups fall through to the
// environment and override layers again.
func (resolver *Resolver) Delete(ctx context.Context, key string) error {
	return resolver.store.DeleteByKey(ctx, key)
}

// All returns every persisted setting for the admin surface. Values resolved
// purely from the environment or overrides do not appear here.
func (resolver *Resolver) All(ctx context.Context) ([]Setting, error) {
	return resolver.store.List(ctx)
}
