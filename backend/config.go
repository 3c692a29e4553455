package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alfredoyang/gomoku/engine"
)

const maxAiDepth = 4

type Config struct {
	AiDepth           int  `json:"ai_depth"`
	AiRootWorkers     int  `json:"ai_root_workers"`
	AiLogSearchStats  bool `json:"ai_log_search_stats"`
	GhostMode         bool `json:"ghost_mode"`
	AiGhostThrottleMs int  `json:"ai_ghost_throttle_ms"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiDepth:           engine.DefaultDepth,
		AiRootWorkers:     1,
		AiLogSearchStats:  false,
		GhostMode:         false,
		AiGhostThrottleMs: 50,
	}
}

// Normalize clamps values a client may send through /api/settings.
func (c Config) Normalize() Config {
	if c.AiDepth < 1 {
		c.AiDepth = engine.DefaultDepth
	}
	if c.AiDepth > maxAiDepth {
		c.AiDepth = maxAiDepth
	}
	if c.AiRootWorkers < 1 {
		c.AiRootWorkers = 1
	}
	if c.AiGhostThrottleMs < 0 {
		c.AiGhostThrottleMs = 0
	}
	return c
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig.Normalize()
	c.mu.Unlock()
}

func configFromEnv(base Config) Config {
	cfg := base
	cfg.AiDepth = getenvInt("AI_DEPTH", cfg.AiDepth)
	cfg.AiRootWorkers = getenvInt("AI_ROOT_WORKERS", cfg.AiRootWorkers)
	cfg.AiLogSearchStats = getenvBool("AI_LOG_SEARCH_STATS", cfg.AiLogSearchStats)
	cfg.GhostMode = getenvBool("GHOST_MODE", cfg.GhostMode)
	cfg.AiGhostThrottleMs = getenvNonNegativeInt("AI_GHOST_THROTTLE_MS", cfg.AiGhostThrottleMs)
	return cfg.Normalize()
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// getenvNonNegativeInt accepts 0 for settings where zero means "off".
func getenvNonNegativeInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
