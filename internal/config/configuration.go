package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/better-appgen/appgen/internal/apperr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Port bounds accepted for both the Rails and the Vite server.
const (
	MinPort = 1024
	MaxPort = 65535
)

var appNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// SupportedLocales is the fixed set of locale codes, in display order.
var SupportedLocales = []string{"en", "it", "de", "fr", "es", "pt", "nl", "pl", "ru", "ja", "zh"}

// localesWithTemplates have translation files shipped with the generator.
var localesWithTemplates = []string{"en", "it"}

var timezones = map[string]string{
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

// Options is the raw user input a Configuration is built from.
type Options struct {
	AppName        string
	RailsPort      int
	VitePort       int
	Locale         string
	WithSimpleForm bool
	SkipDocker     bool
	// AppPath overrides the target directory. Empty means ./<AppName>.
	AppPath string
}

// Configuration is the frozen set of scaffolding parameters. All fields are
// unexported; a value returned by New never changes.
type Configuration struct {
	appName        string
	railsPort      int
	vitePort       int
	locale         string
	withSimpleForm bool
	skipDocker     bool
	appPath        string

	snake  string
	pascal string
	dash   string
}

// New validates opts and returns a Configuration. Validation runs before any
// path resolution so invalid input never reaches the file system.
func New(opts Options) (*Configuration, error) {
	if err := validateAppName(opts.AppName); err != nil {
		return nil, err
	}
	if err := validateLocale(opts.Locale); err != nil {
		return nil, err
	}
	if err := validatePorts(opts.RailsPort, opts.VitePort); err != nil {
		return nil, err
	}

	appPath := opts.AppPath
	if appPath == "" {
		appPath = opts.AppName
	}
	abs, err := filepath.Abs(appPath)
	if err != nil {
		return nil, apperr.Wrap(apperr.ConfigurationError, fmt.Sprintf("Cannot resolve path for '%s'", opts.AppName), err)
	}

	snake := strings.ReplaceAll(opts.AppName, "-", "_")
	return &Configuration{
		appName:        opts.AppName,
		railsPort:      opts.RailsPort,
		vitePort:       opts.VitePort,
		locale:         opts.Locale,
		withSimpleForm: opts.WithSimpleForm,
		skipDocker:     opts.SkipDocker,
		appPath:        abs,
		snake:          snake,
		pascal:         pascalize(snake),
		dash:           strings.ReplaceAll(opts.AppName, "_", "-"),
	}, nil
}

func validateAppName(name string) error {
	if appNamePattern.MatchString(name) {
		return nil
	}
	return apperr.Newf(apperr.ConfigurationError,
		"Invalid app name '%s'. App name must start with a letter and contain only letters, numbers, hyphens, and underscores.", name)
}

func validateLocale(locale string) error {
	if slices.Contains(SupportedLocales, locale) {
		return nil
	}
	return apperr.Newf(apperr.ConfigurationError,
		"Unsupported locale '%s'. Supported locales: %s", locale, strings.Join(SupportedLocales, ", "))
}

func validatePorts(railsPort, vitePort int) error {
	if railsPort < MinPort || railsPort > MaxPort {
		return apperr.Newf(apperr.ConfigurationError, "Rails port must be between %d and %d (got %d)", MinPort, MaxPort, railsPort)
	}
	if vitePort < MinPort || vitePort > MaxPort {
		return apperr.Newf(apperr.ConfigurationError, "Vite port must be between %d and %d (got %d)", MinPort, MaxPort, vitePort)
	}
	if railsPort == vitePort {
		return apperr.Newf(apperr.ConfigurationError, "Rails port and Vite port must be different (both are %d)", railsPort)
	}
	return nil
}

// pascalize capitalizes every underscore-separated word and joins them. The
// rest of each word is lowered, so "my_API" becomes "MyApi".
func pascalize(snake string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	var b strings.Builder
	for _, part := range strings.Split(snake, "_") {
		if part == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(part)
		b.WriteString(upper.String(part[:size]))
		b.WriteString(lower.String(part[size:]))
	}
	return b.String()
}

// AppName returns the name exactly as given.
func (c *Configuration) AppName() string { return c.appName }

// AppNameSnake returns the name with hyphens replaced by underscores.
func (c *Configuration) AppNameSnake() string { return c.snake }

// AppNamePascal returns the capitalized-concatenated form, e.g. "MyBlog".
func (c *Configuration) AppNamePascal() string { return c.pascal }

// AppNameDash returns the name with underscores replaced by hyphens.
func (c *Configuration) AppNameDash() string { return c.dash }

// RailsPort returns the Rails server port.
func (c *Configuration) RailsPort() int { return c.railsPort }

// VitePort returns the Vite dev server port.
func (c *Configuration) VitePort() int { return c.vitePort }

// Locale returns the default locale code.
func (c *Configuration) Locale() string { return c.locale }

// WithSimpleForm reports whether SimpleForm is included.
func (c *Configuration) WithSimpleForm() bool { return c.withSimpleForm }

// SkipDocker reports whether the Docker setup is skipped.
func (c *Configuration) SkipDocker() bool { return c.skipDocker }

// AppPath returns the absolute target directory.
func (c *Configuration) AppPath() string { return c.appPath }

// Timezone maps the locale to an IANA time zone, UTC when unmapped.
func (c *Configuration) Timezone() string {
	if tz, ok := timezones[c.locale]; ok {
		return tz
	}
	return "UTC"
}

// HasLocaleTemplates reports whether translation files ship for the locale.
func (c *Configuration) HasLocaleTemplates() bool {
	return slices.Contains(localesWithTemplates, c.locale)
}

// Binding returns a fresh map of the exposed fields, keyed the way stage
// conditions refer to them.
func (c *Configuration) Binding() map[string]any {
	return map[string]any{
		"app_name":         c.appName,
		"app_name_snake":   c.snake,
		"app_name_pascal":  c.pascal,
		"app_name_dash":    c.dash,
		"rails_port":       c.railsPort,
		"vite_port":        c.vitePort,
		"locale":           c.locale,
		"timezone":         c.Timezone(),
		"with_simple_form": c.withSimpleForm,
		"skip_docker":      c.skipDocker,
	}
}
