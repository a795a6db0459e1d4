package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/better-appgen/appgen/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood in config.yaml (and as APPGEN_* environment variables with
// dots replaced by underscores).
const (
	KeyRailsPort      = "defaults.rails_port"
	KeyVitePort       = "defaults.vite_port"
	KeyLocale         = "defaults.locale"
	KeyWithSimpleForm = "defaults.with_simple_form"
	KeySkipDocker     = "defaults.skip_docker"
	KeyLogLevel       = "log_level"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Defaults are the values "appgen new" falls back to when a flag is not set.
type Defaults struct {
	RailsPort      int
	VitePort       int
	Locale         string
	WithSimpleForm bool
	SkipDocker     bool
}

// Dir returns the path to the appgen config directory (~/.appgen/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.appgen/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	setDefaults(viper.GetViper())

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRailsPort, 3000)
	v.SetDefault(KeyVitePort, 5173)
	v.SetDefault(KeyLocale, "en")
	v.SetDefault(KeyWithSimpleForm, false)
	v.SetDefault(KeySkipDocker, false)
	v.SetDefault(KeyLogLevel, "warn")
}

// LoadDefaults returns the scaffolding defaults currently in effect.
func LoadDefaults() Defaults {
	return Defaults{
		RailsPort:      viper.GetInt(KeyRailsPort),
		VitePort:       viper.GetInt(KeyVitePort),
		Locale:         viper.GetString(KeyLocale),
		WithSimpleForm: viper.GetBool(KeyWithSimpleForm),
		SkipDocker:     viper.GetBool(KeySkipDocker),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
