// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

/*
Package settings implements the database-first configuration layer.

Every runtime credential and feature flag (SMTP transport, OAuth keys, domain
restriction policy) is resolved through a single precedence chain:

	persistent store → environment variable → injected override list → default

Architecture:

  - Setting: The persisted key/value/description row.
  - Value: A tagged sum type — stored strings are cast at read time based on
    the kind the caller requests, never on a stored schema.
  - Resolver: The lookup service consumed by the auth flow and by bootstrap.

Security-critical keys are resolved with Required semantics and fail loudly at
resolution time, not at point of use.
*/
package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// # Domain Entities

// Setting is a persisted named configuration value.
type Setting struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Well-Known Keys

// Keys resolved by the auth flow and the mail transport. Operators may set
// any of these via the settings API or as environment variables of the same
// name.
const (
	KeyDomainRestrictionEnabled = "DOMAIN_RESTRICTION_ENABLED"
	KeyAllowedDomain            = "ALLOWED_DOMAIN"
	KeyGoogleVerification       = "GOOGLE_VERIFICATION_ENABLED"
	KeyGoogleOAuthClientID      = "GOOGLE_OAUTH_CLIENT_ID"
	KeyGoogleOAuthClientSecret  = "GOOGLE_OAUTH_CLIENT_SECRET"
	KeySuperAdminEmails         = "SUPER_ADMIN_EMAILS"
	KeyAdminNotificationEmails  = "ADMIN_NOTIFICATION_EMAILS"
	KeyBreachRedirectDelay      = "BREACH_REDIRECT_DELAY"

	KeyEmailHost         = "EMAIL_HOST"
	KeyEmailPort         = "EMAIL_PORT"
	KeyEmailUseTLS       = "EMAIL_USE_TLS"
	KeyEmailUseSSL       = "EMAIL_USE_SSL"
	KeyEmailHostUser     = "EMAIL_HOST_USER"
	KeyEmailHostPassword = "EMAIL_HOST_PASSWORD"
	KeyDefaultFromEmail  = "DEFAULT_FROM_EMAIL"
)

// # Typed Values

// Kind tags the type a caller wants a stored string cast to.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindList
	KindDict
)

// String returns the human-readable kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is the tagged sum type produced by a resolution.
//
// Only the field matching Kind is meaningful; the others hold zero values.
type Value struct {
	Kind Kind
	Str  string
	Bool bool
	Int  int
	List []string
	Dict map[string]string
}

// IsZero reports whether the value is the empty result of a non-required
// lookup that found nothing.
func (v Value) IsZero() bool {
	return v.Str == "" && !v.Bool && v.Int == 0 && v.List == nil && v.Dict == nil
}

// # Value Constructors

// String wraps a raw string as a Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool wraps a boolean as a Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int wraps an integer as a Value.
func Int(i int) Value { return Value{Kind: KindInt, Int: i} }

// List wraps a string slice as a Value.
func List(items []string) Value { return Value{Kind: KindList, List: items} }

// Dict wraps a string map as a Value.
func Dict(entries map[string]string) Value { return Value{Kind: KindDict, Dict: entries} }

// # Casting

// truthyStrings is the permissive set of strings recognized as true.
// Anything else — including garbage — resolves to false without error.
var truthyStrings = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
}

/*
Cast converts a raw stored string into a typed [Value].

Description: Implements the read-time casting contract. Values carry no stored
schema; the caller's requested kind drives the conversion.

Contract:
  - bool: case-insensitive membership in {"true","1","yes","on"}, else false.
  - int: strict numeric parse; failure is a [*TypeError].
  - list: JSON array first; on failure, comma-split of the raw string.
  - dict: JSON object; on failure, an EMPTY map. This silent degradation is
    longstanding observable behavior — callers treat an unparsable dict as
    unconfigured rather than failing.
  - string: the raw value, unchanged.

Parameters:
  - key: string (for error reporting only)
  - raw: string
  - kind: Kind

Returns:
  - Value: Typed result
  - error: *TypeError for uncastable int values
*/
func Cast(key, raw string, kind Kind) (Value, error) {
	switch kind {

	case KindBool:
		return Bool(truthyStrings[strings.ToLower(raw)]), nil

	case KindInt:
		number, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, &TypeError{Key: key, Raw: raw, Kind: kind, cause: err}
		}
		return Int(number), nil

	case KindList:
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return List(items), nil
		}
		// Not JSON: fall back to a comma-separated list, trimming whitespace
		// and skipping empty segments.
		items = items[:0]
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return List(items), nil

	case KindDict:
		var entries map[string]string
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return Dict(map[string]string{}), nil
		}
		return Dict(entries), nil

	default:
		return String(raw), nil
	}
}

// Serialize converts a typed [Value] into its stored string form.
//
// Booleans serialize as the literals "True"/"False". This is asymmetric with
// the case-insensitive parser on purpose: the round trip is preserved because
// Cast lowercases before matching.
func Serialize(v Value) (string, error) {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "True", nil
		}
		return "False", nil

	case KindInt:
		return strconv.Itoa(v.Int), nil

	case KindList:
		encoded, err := json.Marshal(v.List)
		if err != nil {
			return "", fmt.Errorf("settings: failed to serialize list: %w", err)
		}
		return string(encoded), nil

	case KindDict:
		encoded, err := json.Marshal(v.Dict)
		if err != nil {
			return "", fmt.Errorf("settings: failed to serialize dict: %w", err)
		}
		return string(encoded), nil

	default:
		return v.Str, nil
	}
}
