package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/lapsehq/lapse/internal/llm"
)

// Config holds the settings shared by the lapse commands. Values resolve
// in precedence order: built-in defaults, then config.toml, then LAPSE_*
// environment variables. Command flags override on top of whatever Load
// returns.
type Config struct {
	HistoryDir       string `toml:"history_dir"`
	Output           string `toml:"output"`
	DBPath           string `toml:"db_path"`
	WorkspaceStorage string `toml:"workspace_storage"`
	Workers          int    `toml:"workers"`
	UseOpenAI        bool   `toml:"use_openai"`
	OpenAIModel      string `toml:"openai_model"`
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lapse", "config.toml"), nil
}

// Load resolves the configuration from defaults, the config file, and the
// environment.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HistoryDir:       filepath.Join(home, ".local", "share", "lapse", "history"),
		Output:           filepath.Join("public", "timeline-data.json"),
		DBPath:           filepath.Join(home, ".local", "share", "lapse", "lapse.db"),
		WorkspaceStorage: defaultWorkspaceStorage(home),
		Workers:          4,
		UseOpenAI:        true,
		OpenAIModel:      "gpt-4o-mini",
	}

	cfgPath := filepath.Join(home, ".config", "lapse", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.applyEnv()

	// expand ~ in paths
	cfg.HistoryDir = expandHome(cfg.HistoryDir, home)
	cfg.Output = expandHome(cfg.Output, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.WorkspaceStorage = expandHome(cfg.WorkspaceStorage, home)

	return cfg, nil
}

// Save writes the config as TOML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// LLM assembles the client configuration with the same precedence chain:
// library defaults, then this config, then LAPSE_LLM_* / OPENAI_*
// environment variables.
func (c *Config) LLM() llm.Config {
	lc := llm.DefaultConfig()
	lc.Enabled = c.UseOpenAI
	if c.OpenAIModel != "" {
		lc.Model = c.OpenAIModel
	}
	llm.ApplyEnv(&lc)
	return lc
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LAPSE_HISTORY_DIR"); v != "" {
		c.HistoryDir = v
	}
	if v := os.Getenv("LAPSE_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("LAPSE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LAPSE_WORKSPACE_STORAGE"); v != "" {
		c.WorkspaceStorage = v
	}
	if v := os.Getenv("LAPSE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

// defaultWorkspaceStorage points at Cursor's per-workspace state
// directory for the current platform.
func defaultWorkspaceStorage(home string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Cursor", "User", "workspaceStorage")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Cursor", "User", "workspaceStorage")
		}
		return filepath.Join(home, "AppData", "Roaming", "Cursor", "User", "workspaceStorage")
	default:
		return filepath.Join(home, ".config", "Cursor", "User", "workspaceStorage")
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
