package config

import "github.com/gyaneshwarpardhi/funnelsim/internal/funnel"

// Config is the top-level YAML structure.
type Config struct {
	Version    string             `yaml:"version"`
	Engine     EngineConf         `yaml:"engine"`
	Store      StoreConf          `yaml:"store"`
	Blueprints []funnel.Blueprint `yaml:"blueprints"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	Workers    int `yaml:"workers"`
	QueueDepth int `yaml:"queue_depth"`
	TimeoutMs  int `yaml:"timeout_ms"`
}

// StoreConf selects the scenario store backend.
type StoreConf struct {
	Backend   string `yaml:"backend"` // "memory" or "redis"
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	KeyPrefix string `yaml:"key_prefix"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)
