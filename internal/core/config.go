package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/tilaunch/tilaunch/internal/util"
)

const ConfigVersion = 1

const envPrefix = "TILAUNCH"

type ConfigVersionError struct {
	Path string
	Got  int
	Want int
}

func (e ConfigVersionError) Error() string {
	return fmt.Sprintf("config version mismatch for %s: got v%d, expected v%d (run `tilaunch config init` to regenerate config)", e.Path, e.Got, e.Want)
}

// UnknownConfigKeyError is returned by Get/Set for keys outside ConfigKeys.
type UnknownConfigKeyError struct {
	Key string
}

func (e *UnknownConfigKeyError) Error() string {
	return fmt.Sprintf("unknown config key %q", e.Key)
}

// ConsoleColors are lipgloss colour strings for each log category.
type ConsoleColors struct {
	Debug  string `json:"console_debug" mapstructure:"console_debug"`
	Trace  string `json:"console_trace" mapstructure:"console_trace"`
	Info   string `json:"console_info" mapstructure:"console_info"`
	Error  string `json:"console_error" mapstructure:"console_error"`
	Warn   string `json:"console_warn" mapstructure:"console_warn"`
	Normal string `json:"console_normal" mapstructure:"console_normal"`
}

// For returns the colour configured for c; empty means the terminal default.
func (cc ConsoleColors) For(c Category) string {
	switch c {
	case CategoryDebug:
		return cc.Debug
	case CategoryTrace:
		return cc.Trace
	case CategoryInfo:
		return cc.Info
	case CategoryError:
		return cc.Error
	case CategoryWarn:
		return cc.Warn
	default:
		return cc.Normal
	}
}

type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Workspace            string `json:"workspace" mapstructure:"workspace"`
	DefaultMinIOSVersion string `json:"default_min_ios_version" mapstructure:"default_min_ios_version"`
	LogLevel             string `json:"log_level" mapstructure:"log_level"`

	Certificate         string `json:"certificate" mapstructure:"certificate"`
	ProvisioningProfile string `json:"provisioning_profile" mapstructure:"provisioning_profile"`
	Login               string `json:"login" mapstructure:"login"`
	Password            string `json:"password" mapstructure:"password"`
	GUID                string `json:"guid" mapstructure:"guid"`

	ConsoleColors `mapstructure:",squash"`

	SkipJSMinify       bool   `json:"skip_js_minify" mapstructure:"skip_js_minify"`
	SimFocus           bool   `json:"sim_focus" mapstructure:"sim_focus"`
	UsbmuxDevices      bool   `json:"usbmux_devices" mapstructure:"usbmux_devices"`
	GUIDRestoreSeconds int    `json:"guid_restore_seconds" mapstructure:"guid_restore_seconds"`
	Picker             string `json:"picker" mapstructure:"picker"`
	TiSDK              string `json:"ti_sdk" mapstructure:"ti_sdk"`
}

var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

func DefaultConfig() Config {
	return Config{
		Version:              ConfigVersion,
		DefaultMinIOSVersion: "12.0",
		LogLevel:             "info",
		ConsoleColors: ConsoleColors{
			Debug:  "#8A8A8A",
			Trace:  "#6C6C6C",
			Info:   "#5FAFD7",
			Error:  "#FF5F5F",
			Warn:   "#FFAF00",
			Normal: "",
		},
		SkipJSMinify:       true,
		SimFocus:           true,
		GUIDRestoreSeconds: 10,
		Picker:             "fuzzy",
	}
}

// Settings flattens the config into its store keys.
func (c Config) Settings() map[string]any {
	return map[string]any{
		"version":                 c.Version,
		"workspace":               c.Workspace,
		"default_min_ios_version": c.DefaultMinIOSVersion,
		"log_level":               c.LogLevel,
		"certificate":             c.Certificate,
		"provisioning_profile":    c.ProvisioningProfile,
		"login":                   c.Login,
		"password":                c.Password,
		"guid":                    c.GUID,
		"console_debug":           c.Debug,
		"console_trace":           c.Trace,
		"console_info":            c.Info,
		"console_error":           c.ConsoleColors.Error,
		"console_warn":            c.Warn,
		"console_normal":          c.Normal,
		"skip_js_minify":          c.SkipJSMinify,
		"sim_focus":               c.SimFocus,
		"usbmux_devices":          c.UsbmuxDevices,
		"guid_restore_seconds":    c.GUIDRestoreSeconds,
		"picker":                  c.Picker,
		"ti_sdk":                  c.TiSDK,
	}
}

// ConfigKeys lists the user-settable keys in sorted order.
func ConfigKeys() []string {
	keys := make([]string, 0, 24)
	for k := range DefaultConfig().Settings() {
		if k == "version" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsConfigKey(key string) bool {
	if key == "version" {
		return false
	}
	_, ok := DefaultConfig().Settings()[key]
	return ok
}

// Get returns the value of key formatted as a string.
func (c Config) Get(key string) (string, error) {
	key = normalizeKey(key)
	if !IsConfigKey(key) {
		return "", &UnknownConfigKeyError{Key: key}
	}
	return fmt.Sprint(c.Settings()[key]), nil
}

// Set assigns a string value to key with the same weak typing used when loading,
// then validates the result. c is left untouched on error.
func (c *Config) Set(key, value string) error {
	key = normalizeKey(key)
	if !IsConfigKey(key) {
		return &UnknownConfigKeyError{Key: key}
	}
	v := viper.New()
	for k, val := range c.Settings() {
		v.Set(k, val)
	}
	v.Set(key, value)
	var next Config
	if err := v.Unmarshal(&next); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Validate checks the values that would break an invocation.
func (c Config) Validate() error {
	if c.DefaultMinIOSVersion != "" {
		if _, ok := ParseVersion(c.DefaultMinIOSVersion); !ok {
			return fmt.Errorf("default_min_ios_version %q is not a version", c.DefaultMinIOSVersion)
		}
	}
	if c.LogLevel != "" && !containsString(LogLevels, c.LogLevel) {
		return fmt.Errorf("log_level %q must be one of %s", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if c.GUID != "" {
		if _, err := uuid.Parse(c.GUID); err != nil {
			return fmt.Errorf("guid %q is not a uuid: %w", c.GUID, err)
		}
	}
	if c.GUIDRestoreSeconds < 0 {
		return fmt.Errorf("guid_restore_seconds must not be negative")
	}
	switch c.Picker {
	case "", "fuzzy", "form":
	default:
		return fmt.Errorf("picker %q must be fuzzy or form", c.Picker)
	}
	return nil
}

// ConfigPath is config.json in the per-user tilaunch directory.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tilaunch", "config.json"), nil
}

func resolveConfigPath(overridePath string) (string, error) {
	if overridePath != "" {
		return overridePath, nil
	}
	return ConfigPath()
}

// LoadConfig reads the config file (missing is fine) and applies TILAUNCH_* environment
// overrides on top of it.
func LoadConfig(overridePath string) (Config, error) {
	cfg := DefaultConfig()
	path, err := resolveConfigPath(overridePath)
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	for k, val := range cfg.Settings() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if _, statErr := os.Stat(path); statErr == nil {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return cfg, statErr
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if cfg.Version != ConfigVersion {
		return cfg, ConfigVersionError{Path: path, Got: cfg.Version, Want: ConfigVersion}
	}
	if cfg.GUIDRestoreSeconds == 0 {
		cfg.GUIDRestoreSeconds = DefaultConfig().GUIDRestoreSeconds
	}
	return cfg, nil
}

func SaveConfig(overridePath string, cfg Config) error {
	path, err := resolveConfigPath(overridePath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Version = ConfigVersion
	// The file holds the appc password.
	return util.WriteJSONFile(path, cfg, 0o600)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
