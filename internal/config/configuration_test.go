package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions(name string) Options {
	return Options{AppName: name, RailsPort: 3000, VitePort: 5173, Locale: "en"}
}

func TestNew_DerivedNames(t *testing.T) {
	cfg, err := New(validOptions("my-blog"))
	require.NoError(t, err)

	assert.Equal(t, "my-blog", cfg.AppName())
	assert.Equal(t, "my_blog", cfg.AppNameSnake())
	assert.Equal(t, "MyBlog", cfg.AppNamePascal())
	assert.Equal(t, "my-blog", cfg.AppNameDash())
	assert.Equal(t, 3000, cfg.RailsPort())
	assert.Equal(t, 5173, cfg.VitePort())
	assert.Equal(t, "UTC", cfg.Timezone())
}

func TestNew_NameVariants(t *testing.T) {
	tests := []struct {
		name   string
		snake  string
		pascal string
		dash   string
	}{
		{"blog", "blog", "Blog", "blog"},
		{"my_shop", "my_shop", "MyShop", "my-shop"},
		{"Mixed-Case_name", "Mixed_Case_name", "MixedCaseName", "Mixed-Case-name"},
		{"api2-server", "api2_server", "Api2Server", "api2-server"},
		{"a--b", "a__b", "AB", "a--b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(validOptions(tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.snake, cfg.AppNameSnake())
			assert.Equal(t, tt.pascal, cfg.AppNamePascal())
			assert.Equal(t, tt.dash, cfg.AppNameDash())
		})
	}
}

func TestNew_InvalidNames(t *testing.T) {
	for _, name := range []string{"", "1app", "my app", "-app", "_app", "app!", "app.name"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := New(validOptions(name))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, apperr.ConfigurationError, apperr.CodeOf(err))
			assert.Contains(t, err.Error(), "'"+name+"'")
		})
	}
}

func TestNew_Locales(t *testing.T) {
	tests := map[string]string{
		"en": "UTC",
		"it": "Europe/Rome",
		"de": "Europe/Berlin",
		"fr": "Europe/Paris",
		"es": "Europe/Madrid",
		"pt": "Europe/Lisbon",
		"nl": "Europe/Amsterdam",
		"pl": "Europe/Warsaw",
		"ru": "Europe/Moscow",
		"ja": "Asia/Tokyo",
		"zh": "Asia/Shanghai",
	}
	for locale, tz := range tests {
		opts := validOptions("app")
		opts.Locale = locale
		cfg, err := New(opts)
		require.NoError(t, err, locale)
		assert.Equal(t, tz, cfg.Timezone(), locale)
	}
}

func TestNew_UnsupportedLocaleListsAll(t *testing.T) {
	opts := validOptions("app")
	opts.Locale = "xx"
	_, err := New(opts)
	require.Error(t, err)
	assert.Equal(t, apperr.ConfigurationError, apperr.CodeOf(err))

	msg := err.Error()
	assert.Contains(t, msg, "'xx'")
	listed := msg[strings.Index(msg, "Supported locales: ")+len("Supported locales: "):]
	assert.Len(t, strings.Split(listed, ", "), 11)
	for _, l := range SupportedLocales {
		assert.Contains(t, listed, l)
	}
}

func TestNew_Ports(t *testing.T) {
	tests := []struct {
		name      string
		rails     int
		vite      int
		wantErr   bool
		errSubstr string
	}{
		{"defaults", 3000, 5173, false, ""},
		{"lower bound", 1024, 65535, false, ""},
		{"rails too low", 1023, 5173, true, "Rails port"},
		{"rails too high", 65536, 5173, true, "Rails port"},
		{"vite too low", 3000, 80, true, "Vite port"},
		{"vite zero", 3000, 0, true, "Vite port"},
		{"equal", 4000, 4000, true, "must be different"},
		{"equal at bound", 1024, 1024, true, "must be different"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions("app")
			opts.RailsPort = tt.rails
			opts.VitePort = tt.vite
			_, err := New(opts)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.ConfigurationError, apperr.CodeOf(err))
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestNew_AppPath(t *testing.T) {
	cfg, err := New(validOptions("my-blog"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.AppPath()))
	assert.Equal(t, "my-blog", filepath.Base(cfg.AppPath()))

	dir := t.TempDir()
	opts := validOptions("my-blog")
	opts.AppPath = filepath.Join(dir, "elsewhere")
	cfg, err = New(opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "elsewhere"), cfg.AppPath())
}

func TestBinding(t *testing.T) {
	opts := validOptions("my-blog")
	opts.Locale = "it"
	opts.WithSimpleForm = true
	cfg, err := New(opts)
	require.NoError(t, err)

	b := cfg.Binding()
	assert.Equal(t, "MyBlog", b["app_name_pascal"])
	assert.Equal(t, "Europe/Rome", b["timezone"])
	assert.Equal(t, true, b["with_simple_form"])
	assert.Equal(t, false, b["skip_docker"])
	assert.Equal(t, 5173, b["vite_port"])

	// Mutating the returned map does not leak back.
	b["app_name"] = "changed"
	assert.Equal(t, "my-blog", cfg.Binding()["app_name"])
}

func TestHasLocaleTemplates(t *testing.T) {
	for locale, want := range map[string]bool{"en": true, "it": true, "de": false, "ja": false} {
		opts := validOptions("app")
		opts.Locale = locale
		cfg, err := New(opts)
		require.NoError(t, err)
		assert.Equal(t, want, cfg.HasLocaleTemplates(), locale)
	}
}
