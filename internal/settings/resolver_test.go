// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package settings_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenlabs/pollen/internal/settings"
)

// memStore is an in-memory Store for resolver tests.
type memStore struct {
	rows map[string]*settings.Setting
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]*settings.Setting{}}
}

func (m *memStore) GetByKey(_ context.Context, key string) (*settings.Setting, error) {
	if s, ok := m.rows[key]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, settings.ErrNotFound
}

func (m *memStore) Upsert(_ context.Context, s *settings.Setting) error {
	if s.ID == "" {
		s.ID = "mem-" + s.Key
	}
	copied := *s
	m.rows[s.Key] = &copied
	return nil
}

func (m *memStore) DeleteByKey(_ context.Context, key string) error {
	delete(m.rows, key)
	return nil
}

func (m *memStore) List(_ context.Context) ([]settings.Setting, error) {
	out := make([]settings.Setting, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func seed(store *memStore, key, value string) {
	store.rows[key] = &settings.Setting{ID: "mem-" + key, Key: key, Value: value}
}

/*
TestResolver_Precedence verifies the store → env → override → default chain.
*/
func TestResolver_Precedence(t *testing.T) {
	ctx := context.Background()

	t.Run("store_wins_over_env", func(t *testing.T) {
		store := newMemStore()
		seed(store, "POLLEN_TEST_HOST", "from-store")
		t.Setenv("POLLEN_TEST_HOST", "from-env")

		resolver := settings.NewResolver(store, nil)
		v, err := resolver.Get(ctx, "POLLEN_TEST_HOST", settings.KindString, settings.Options{})
		require.NoError(t, err)
		assert.Equal(t, "from-store", v.Str)
	})

	t.Run("env_wins_over_override", func(t *testing.T) {
		t.Setenv("POLLEN_TEST_NAME", "from-env")

		resolver := settings.NewResolver(newMemStore(), map[string]settings.Value{
			"POLLEN_TEST_NAME": settings.String("from-override"),
		})
		v, err := resolver.Get(ctx, "POLLEN_TEST_NAME", settings.KindString, settings.Options{})
		require.NoError(t, err)
		assert.Equal(t, "from-env", v.Str)
	})

	t.Run("empty_env_var_still_counts", func(t *testing.T) {
		t.Setenv("POLLEN_TEST_EMPTY", "")

		resolver := settings.NewResolver(newMemStore(), map[string]settings.Value{
			"POLLEN_TEST_EMPTY": settings.String("from-override"),
		})
		v, err := resolver.Get(ctx, "POLLEN_TEST_EMPTY", settings.KindString, settings.Options{})
		require.NoError(t, err)
		assert.Equal(t, "", v.Str)
	})

	t.Run("override_returned_verbatim_without_cast", func(t *testing.T) {
		resolver := settings.NewResolver(newMemStore(), map[string]settings.Value{
			settings.KeySuperAdminEmails: settings.List([]string{"maya@pollenlabs.io"}),
		})

		// Requested kind is ignored for overrides: the injected value comes
		// back as stored.
		v, err := resolver.Get(ctx, settings.KeySuperAdminEmails, settings.KindString, settings.Options{})
		require.NoError(t, err)
		assert.Equal(t, settings.KindList, v.Kind)
		assert.Equal(t, []string{"maya@pollenlabs.io"}, v.List)
	})

	t.Run("default_when_all_layers_miss", func(t *testing.T) {
		resolver := settings.NewResolver(newMemStore(), nil)

		def := settings.Int(42)
		v, err := resolver.Get(ctx, "POLLEN_TEST_UNSET", settings.KindInt, settings.Options{Default: &def})
		require.NoError(t, err)
		assert.Equal(t, 42, v.Int)
	})

	t.Run("required_miss_is_missing_error", func(t *testing.T) {
		resolver := settings.NewResolver(newMemStore(), nil)

		_, err := resolver.Get(ctx, "POLLEN_TEST_UNSET", settings.KindString, settings.Options{Required: true})
		require.Error(t, err)
		assert.True(t, settings.IsMissing(err))
		assert.Contains(t, err.Error(), "POLLEN_TEST_UNSET")
	})

	t.Run("optional_miss_is_typed_zero", func(t *testing.T) {
		resolver := settings.NewResolver(newMemStore(), nil)

		v, err := resolver.Get(ctx, "POLLEN_TEST_UNSET", settings.KindBool, settings.Options{})
		require.NoError(t, err)
		assert.Equal(t, settings.KindBool, v.Kind)
		assert.False(t, v.Bool)
		assert.True(t, v.IsZero())
	})
}

/*
TestCast_Bool checks the permissive truthy set and the no-error falsy fallback.
*/
func TestCast_Bool(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"literal_True", "True", true},
		{"lowercase_true", "true", true},
		{"uppercase_TRUE", "TRUE", true},
		{"numeric_1", "1", true},
		{"yes", "yes", true},
		{"on", "on", true},
		{"literal_False", "False", false},
		{"zero", "0", false},
		{"garbage", "definitely", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := settings.Cast("K", tt.raw, settings.KindBool)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Bool)
		})
	}
}

/*
TestCast_Int checks strict integer parsing and the TypeError failure mode.
*/
func TestCast_Int(t *testing.T) {
	v, err := settings.Cast("EMAIL_PORT", "587", settings.KindInt)
	require.NoError(t, err)
	assert.Equal(t, 587, v.Int)

	v, err = settings.Cast("EMAIL_PORT", " 25 ", settings.KindInt)
	require.NoError(t, err)
	assert.Equal(t, 25, v.Int)

	_, err = settings.Cast("EMAIL_PORT", "not-a-port", settings.KindInt)
	require.Error(t, err)
	assert.True(t, settings.IsTypeError(err))
	assert.Contains(t, err.Error(), "EMAIL_PORT")
}

/*
TestCast_List checks JSON-array parsing with the comma-split fallback.
*/
func TestCast_List(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json_array", `["a@x.io","b@x.io"]`, []string{"a@x.io", "b@x.io"}},
		{"comma_split", "a@x.io, b@x.io", []string{"a@x.io", "b@x.io"}},
		{"skips_empty_segments", "a,,b,", []string{"a", "b"}},
		{"single_value", "a@x.io", []string{"a@x.io"}},
		{"empty_json_array", `[]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := settings.Cast("K", tt.raw, settings.KindList)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.List)
		})
	}
}

/*
TestCast_Dict checks JSON-object parsing and the silent empty-map degradation.
*/
func TestCast_Dict(t *testing.T) {
	v, err := settings.Cast("K", `{"a":"1","b":"2"}`, settings.KindDict)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, v.Dict)

	// Unparsable dicts degrade to an empty map, never an error.
	v, err = settings.Cast("K", "not json at all", settings.KindDict)
	require.NoError(t, err)
	assert.NotNil(t, v.Dict)
	assert.Empty(t, v.Dict)
}

/*
TestSerialize_RoundTrip verifies the write format survives a read-time cast.
*/
func TestSerialize_RoundTrip(t *testing.T) {
	t.Run("bool_stores_python_style_literals", func(t *testing.T) {
		raw, err := settings.Serialize(settings.Bool(true))
		require.NoError(t, err)
		assert.Equal(t, "True", raw)

		raw, err = settings.Serialize(settings.Bool(false))
		require.NoError(t, err)
		assert.Equal(t, "False", raw)

		// The parser is case-insensitive, so the round trip holds.
		v, err := settings.Cast("K", "True", settings.KindBool)
		require.NoError(t, err)
		assert.True(t, v.Bool)
	})

	t.Run("list_stores_json", func(t *testing.T) {
		raw, err := settings.Serialize(settings.List([]string{"x", "y"}))
		require.NoError(t, err)
		assert.Equal(t, `["x","y"]`, raw)

		v, err := settings.Cast("K", raw, settings.KindList)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, v.List)
	})

	t.Run("int_stores_decimal", func(t *testing.T) {
		raw, err := settings.Serialize(settings.Int(465))
		require.NoError(t, err)
		assert.Equal(t, "465", raw)
	})
}

/*
TestResolver_SetAndDelete exercises writes through the resolver and the
fall-through behavior after deletion.
*/
func TestResolver_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	resolver := settings.NewResolver(store, nil)

	_, err := resolver.Set(ctx, settings.KeyEmailUseTLS, settings.Bool(true), "SMTP STARTTLS")
	require.NoError(t, err)

	// Stored form is the literal "True".
	stored, err := store.GetByKey(ctx, settings.KeyEmailUseTLS)
	require.NoError(t, err)
	assert.Equal(t, "True", stored.Value)

	enabled, err := resolver.BoolOr(ctx, settings.KeyEmailUseTLS, false)
	require.NoError(t, err)
	assert.True(t, enabled)

	// After deletion the lookup falls through to the environment again.
	require.NoError(t, resolver.Delete(ctx, settings.KeyEmailUseTLS))
	t.Setenv(settings.KeyEmailUseTLS, "yes")

	enabled, err = resolver.BoolOr(ctx, settings.KeyEmailUseTLS, false)
	require.NoError(t, err)
	assert.True(t, enabled)
}

/*
TestResolver_TypedGetters covers the convenience getters built on Get.
*/
func TestResolver_TypedGetters(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seed(store, settings.KeyEmailPort, "2525")
	seed(store, settings.KeyAdminNotificationEmails, `["ops@pollenlabs.io"]`)

	resolver := settings.NewResolver(store, nil)

	port, err := resolver.IntOr(ctx, settings.KeyEmailPort, 25)
	require.NoError(t, err)
	assert.Equal(t, 2525, port)

	emails, err := resolver.ListOr(ctx, settings.KeyAdminNotificationEmails, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@pollenlabs.io"}, emails)

	// Missing list resolves to an empty, non-nil slice.
	missing, err := resolver.ListOr(ctx, "POLLEN_TEST_UNSET_LIST", nil)
	require.NoError(t, err)
	require.NotNil(t, missing)
	assert.Empty(t, missing)

	// Secret is required.
	_, err = resolver.Secret(ctx, settings.KeyEmailHostPassword)
	require.Error(t, err)
	assert.True(t, settings.IsMissing(err))

	seed(store, settings.KeyEmailHostPassword, "hunter2")
	secret, err := resolver.Secret(ctx, settings.KeyEmailHostPassword)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
}
