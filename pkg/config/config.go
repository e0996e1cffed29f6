/*
Package config manages TOML config for screencomp.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/bastiangx/screencomp/internal/utils"
	"github.com/bastiangx/screencomp/pkg/screen"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
)

// ConfigFileName is the file looked up in the config directory.
const ConfigFileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Overlay OverlayConfig `toml:"overlay"`
	Keys    KeysConfig    `toml:"keys"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// EngineConfig controls where candidates come from.
type EngineConfig struct {
	Scrollback      bool `toml:"scrollback"`
	URLTokens       bool `toml:"url_tokens"`
	MinPrefix       int  `toml:"min_prefix"`
	ScrollbackLines int  `toml:"scrollback_lines"`
}

// OverlayConfig holds the overlay colors, in any form lipgloss.Color accepts.
type OverlayConfig struct {
	NormalFg   string `toml:"normal_fg"`
	NormalBg   string `toml:"normal_bg"`
	SelectedFg string `toml:"selected_fg"`
	SelectedBg string `toml:"selected_bg"`
	StatusFg   string `toml:"status_fg"`
	StatusBg   string `toml:"status_bg"`
}

// KeysConfig holds key bindings. Activate and Quit belong to the
// interactive host, the rest to an active session.
type KeysConfig struct {
	Activate []string `toml:"activate"`
	Quit     []string `toml:"quit"`
	Cancel   []string `toml:"cancel"`
	Prev     []string `toml:"prev"`
	Next     []string `toml:"next"`
	PagePrev []string `toml:"page_prev"`
	PageNext []string `toml:"page_next"`
	Commit   []string `toml:"commit"`
	Expand   []string `toml:"expand"`
}

// Bindings returns the session bindings keyed by action name.
func (k KeysConfig) Bindings() map[string][]string {
	return map[string][]string{
		"cancel":    k.Cancel,
		"prev":      k.Prev,
		"next":      k.Next,
		"page_prev": k.PagePrev,
		"page_next": k.PageNext,
		"commit":    k.Commit,
		"expand":    k.Expand,
	}
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
	MaxPrefix    int `toml:"max_prefix"`
	MaxTextBytes int `toml:"max_text_bytes"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Scrollback:      true,
			URLTokens:       true,
			MinPrefix:       1,
			ScrollbackLines: 10000,
		},
		Overlay: OverlayConfig{
			NormalFg:   "252",
			NormalBg:   "236",
			SelectedFg: "15",
			SelectedBg: "62",
			StatusFg:   "241",
			StatusBg:   "234",
		},
		Keys: KeysConfig{
			Activate: []string{"alt+/", "ctrl+]"},
			Quit:     []string{"ctrl+c"},
			Cancel:   []string{"esc"},
			Prev:     []string{"up", "ctrl+p", "alt+p"},
			Next:     []string{"down", "ctrl+n", "alt+n"},
			PagePrev: []string{"pgup", "ctrl+b", "alt+v"},
			PageNext: []string{"pgdown", "ctrl+f", "ctrl+v"},
			Commit:   []string{"space", "enter"},
			Expand:   []string{"tab"},
		},
		Server: ServerConfig{
			MaxLimit:     256,
			DefaultLimit: 24,
			MaxPrefix:    256,
			MaxTextBytes: 4 << 20,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
	}
}

// Validate reports every out of range value and unreadable key binding.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Engine.MinPrefix < 0 {
		result = multierror.Append(result, fmt.Errorf("engine.min_prefix must be >= 0, got %d", c.Engine.MinPrefix))
	}
	if c.Engine.ScrollbackLines < 0 {
		result = multierror.Append(result, fmt.Errorf("engine.scrollback_lines must be >= 0, got %d", c.Engine.ScrollbackLines))
	}
	if c.Server.MaxLimit < 1 {
		result = multierror.Append(result, fmt.Errorf("server.max_limit must be >= 1, got %d", c.Server.MaxLimit))
	}
	if c.Server.DefaultLimit < 1 || c.Server.DefaultLimit > c.Server.MaxLimit {
		result = multierror.Append(result, fmt.Errorf("server.default_limit must be within 1..%d, got %d", c.Server.MaxLimit, c.Server.DefaultLimit))
	}
	if c.Server.MaxPrefix < 1 {
		result = multierror.Append(result, fmt.Errorf("server.max_prefix must be >= 1, got %d", c.Server.MaxPrefix))
	}
	if c.Server.MaxTextBytes < 1 {
		result = multierror.Append(result, fmt.Errorf("server.max_text_bytes must be >= 1, got %d", c.Server.MaxTextBytes))
	}
	if c.CLI.DefaultLimit < 0 {
		result = multierror.Append(result, fmt.Errorf("cli.default_limit must be >= 0, got %d", c.CLI.DefaultLimit))
	}

	keys := c.Keys.Bindings()
	keys["activate"] = c.Keys.Activate
	keys["quit"] = c.Keys.Quit
	for name, bindings := range keys {
		for _, b := range bindings {
			if _, err := screen.ParseKey(b); err != nil {
				result = multierror.Append(result, fmt.Errorf("keys.%s: %w", name, err))
			}
		}
	}

	return result.ErrorOrNil()
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(ConfigFileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: $XDG_CONFIG_HOME/screencomp/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values that fail validation are an
// error; a file that fails to parse falls back to partial recovery.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// tryPartialParse keeps every section of a broken file that still parses
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "overlay"); ok {
		extractOverlayConfig(section, &config.Overlay)
	}
	if section, ok := utils.ExtractSection(tempConfig, "keys"); ok {
		extractKeysConfig(section, &config.Keys)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractInt64(section, "default_limit"); ok {
			config.CLI.DefaultLimit = val
		}
	}
	return config
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractValue[bool](data, "scrollback"); ok {
		engine.Scrollback = val
	}
	if val, ok := utils.ExtractValue[bool](data, "url_tokens"); ok {
		engine.URLTokens = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		engine.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "scrollback_lines"); ok {
		engine.ScrollbackLines = val
	}
}

func extractOverlayConfig(data map[string]any, overlay *OverlayConfig) {
	fields := map[string]*string{
		"normal_fg":   &overlay.NormalFg,
		"normal_bg":   &overlay.NormalBg,
		"selected_fg": &overlay.SelectedFg,
		"selected_bg": &overlay.SelectedBg,
		"status_fg":   &overlay.StatusFg,
		"status_bg":   &overlay.StatusBg,
	}
	for key, dst := range fields {
		if val, ok := utils.ExtractValue[string](data, key); ok {
			*dst = val
		}
	}
}

func extractKeysConfig(data map[string]any, keys *KeysConfig) {
	fields := map[string]*[]string{
		"activate":  &keys.Activate,
		"quit":      &keys.Quit,
		"cancel":    &keys.Cancel,
		"prev":      &keys.Prev,
		"next":      &keys.Next,
		"page_prev": &keys.PagePrev,
		"page_next": &keys.PageNext,
		"commit":    &keys.Commit,
		"expand":    &keys.Expand,
	}
	for key, dst := range fields {
		if val, ok := utils.ExtractStringSlice(data, key); ok {
			*dst = val
		}
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_text_bytes"); ok {
		server.MaxTextBytes = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server limits and saves to file. Nil values are
// left unchanged.
func (c *Config) Update(configPath string, maxLimit, defaultLimit, maxPrefix *int) error {
	next := *c
	server := &next.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if defaultLimit != nil {
		server.DefaultLimit = *defaultLimit
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
