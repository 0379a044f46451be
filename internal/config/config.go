package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	Config struct {
		Language     string       `json:"language"`
		DataDir      string       `json:"data_dir"`
		StoreBackend StoreBackend `json:"store_backend"`
		Engine       EngineConfig `json:"engine"`
		Debug        bool         `json:"debug"`
		Verbose      bool         `json:"verbose"`
		PathFile     string       `json:"path_file"`
	}

	// EngineConfig tells the orchestrator how to launch the analysis engine.
	EngineConfig struct {
		Interpreter    string `json:"interpreter"`
		Script         string `json:"script"`
		EngineDir      string `json:"engine_dir"`
		TimeoutMinutes int    `json:"timeout_minutes"`
	}

	StoreBackend string
)

const (
	StoreJSON   StoreBackend = "json"
	StoreSQLite StoreBackend = "sqlite"
)

const (
	configDirName      = ".brainlift"
	configFileName     = "config.json"
	defaultLang        = LangEN
	defaultInterpreter = "python3"
	defaultScript      = "langgraph_agent.py"
)

func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, configDirName)
		configPath = filepath.Join(configDir, configFileName)

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("error creating config directory: %w", err)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	config.PathFile = configPath
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("loaded configuration is invalid: %w", err)
	}

	return &config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := &Config{PathFile: path}
	applyDefaults(config)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error saving default config: %w", err)
	}

	return config, nil
}

// applyDefaults fills zero fields; the data directory defaults to the
// directory holding the config file.
func applyDefaults(config *Config) {
	if config.Language == "" {
		config.Language = defaultLang
	}
	if config.DataDir == "" && config.PathFile != "" {
		config.DataDir = filepath.Dir(config.PathFile)
	}
	if config.StoreBackend == "" {
		config.StoreBackend = StoreJSON
	}
	if config.Engine.Interpreter == "" {
		config.Engine.Interpreter = defaultInterpreter
	}
	if config.Engine.Script == "" {
		config.Engine.Script = defaultScript
	}
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration to save is invalid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("config file path is not set")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return errors.New("language cannot be empty")
	}
	if config.DataDir == "" {
		return errors.New("data_dir cannot be empty")
	}

	switch config.StoreBackend {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("unsupported store backend: %s", config.StoreBackend)
	}

	if config.Engine.TimeoutMinutes < 0 {
		return errors.New("engine timeout_minutes cannot be negative")
	}
	return nil
}

// Timeout is the engine run limit; zero means no limit.
func (e EngineConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMinutes) * time.Minute
}

// ScriptPath resolves the engine script against the engine directory.
func (e EngineConfig) ScriptPath() string {
	if filepath.IsAbs(e.Script) || e.EngineDir == "" {
		return e.Script
	}
	return filepath.Join(e.EngineDir, e.Script)
}
