package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskClassify TaskType = "classify"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Enabled       bool
	LogCalls      bool
	APIKey        string
	BaseURL       string // overrides the public endpoint, used by tests
	Model         string
	TimeoutMs     int
	MaxRetries    int
	BackoffBaseMs int
	Tasks         map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults. Classification
// via the API is enabled by default; an empty API key still forces the
// keyword strategy.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		LogCalls:      false,
		Model:         "gpt-4o-mini",
		TimeoutMs:     30000,
		MaxRetries:    2,
		BackoffBaseMs: 500,
		Tasks: map[TaskType]TaskConfig{
			TaskClassify: {Temperature: 0, MaxTokens: 256, TimeoutMs: 30000},
		},
	}
}

// ApplyEnv overlays environment variables onto cfg. The API key uses the
// conventional OPENAI_API_KEY name; everything else is LAPSE_-prefixed.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("LAPSE_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("LAPSE_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("LAPSE_OPENAI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LAPSE_OPENAI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LAPSE_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("LAPSE_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("LAPSE_LLM_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BackoffBaseMs = n
		}
	}

	applyTaskTimeoutEnv(cfg, TaskClassify, "LAPSE_LLM_CLASSIFY_TIMEOUT_MS")
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
