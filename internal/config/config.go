// Package config loads pocket-kdp settings. Values come from built-in
// defaults, then config.yaml in the home directory (or an explicit file),
// then POCKET_KDP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDirName is the home directory name under the user's home
	DefaultDirName = ".pocket-kdp"
	// FileName is the config file looked up in the home directory
	FileName = "config.yaml"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "POCKET_KDP"
)

// Config is the full settings tree
type Config struct {
	DataDir   string        `mapstructure:"data_dir" yaml:"data_dir"`
	ExportDir string        `mapstructure:"export_dir" yaml:"export_dir"`
	Log       LogConfig     `mapstructure:"log" yaml:"log"`
	Preview   PreviewConfig `mapstructure:"preview" yaml:"preview"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	File     string `mapstructure:"file" yaml:"file"`
}

// PreviewConfig configures glamour rendering of prompts
type PreviewConfig struct {
	Style    string `mapstructure:"style" yaml:"style"` // auto, dark, light, notty
	WordWrap int    `mapstructure:"word_wrap" yaml:"word_wrap"`
}

// DefaultHome returns ~/.pocket-kdp
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// DefaultConfig returns the settings used when nothing overrides them.
// Data lives directly in homeDir.
func DefaultConfig(homeDir string) Config {
	return Config{
		DataDir:   homeDir,
		ExportDir: ".",
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
		Preview: PreviewConfig{
			Style:    "auto",
			WordWrap: 80,
		},
	}
}

// Manager owns a viper instance and the Config decoded from it
type Manager struct {
	mu      sync.RWMutex
	v       *viper.Viper
	homeDir string
	config  *Config
}

// NewManager loads configuration. cfgFile, when set, must exist; otherwise
// config.yaml is looked up in homeDir and may be absent. An empty homeDir
// means DefaultHome().
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	if homeDir == "" {
		var err error
		if homeDir, err = DefaultHome(); err != nil {
			return nil, err
		}
	}

	m := &Manager{
		v:       viper.New(),
		homeDir: homeDir,
	}

	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg

	return m, nil
}

func (m *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig(m.homeDir)
	m.v.SetDefault("data_dir", defaults.DataDir)
	m.v.SetDefault("export_dir", defaults.ExportDir)
	m.v.SetDefault("log.level", defaults.Log.Level)
	m.v.SetDefault("log.encoding", defaults.Log.Encoding)
	m.v.SetDefault("log.file", defaults.Log.File)
	m.v.SetDefault("preview.style", defaults.Preview.Style)
	m.v.SetDefault("preview.word_wrap", defaults.Preview.WordWrap)

	// POCKET_KDP_LOG_LEVEL overrides log.level
	m.v.SetEnvPrefix(EnvPrefix)
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	if cfgFile != "" {
		m.v.SetConfigFile(cfgFile)
	} else {
		m.v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(m.homeDir)
	}

	if err := m.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func (m *Manager) load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.DataDir = ExpandHome(cfg.DataDir)
	cfg.ExportDir = ExpandHome(cfg.ExportDir)
	return &cfg, nil
}

// Get returns the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.config
}

// HomeDir is the directory searched for config.yaml
func (m *Manager) HomeDir() string {
	return m.homeDir
}

// ConfigFileUsed returns the file that was read, or "" when running on
// defaults
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// DefaultPath is where `config init` writes
func (m *Manager) DefaultPath() string {
	return filepath.Join(m.homeDir, FileName)
}

// Save writes cfg as YAML to path, creating parent directories
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# pocket-kdp configuration
# Every key can be overridden with a POCKET_KDP_ environment variable,
# e.g. POCKET_KDP_LOG_LEVEL=debug

`)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, append(header, data...), 0o644)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
