// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone names the location for calendar-date attribution,
	// e.g. "Asia/Shanghai". Empty means the process-local zone.
	Timezone string `koanf:"timezone"`

	// JobQueueSize bounds the in-memory analysis job queue.
	JobQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the in-flight job dedupe set.
	DedupeSize int `koanf:"dedupe_size"`

	// Graph builder knobs.
	GraphLookAhead         int     `koanf:"graph_look_ahead"`
	GraphDecaySeconds      float64 `koanf:"graph_decay_seconds"`
	GraphTopEdges          int     `koanf:"graph_top_edges"`
	GraphLookAheadFactor   float64 `koanf:"graph_look_ahead_factor"`
	GraphPositionDecrement float64 `koanf:"graph_position_decrement"`

	// Repeat-chain knobs.
	RepeatResponseWindowSeconds int `koanf:"repeat_response_window_seconds"`
	RepeatMinFastResponses      int `koanf:"repeat_min_fast_responses"`

	// Battle knobs.
	BattleMinLength       int `koanf:"battle_min_length"`
	BattleMinParticipants int `koanf:"battle_min_participants"`
	BattleTopBattles      int `koanf:"battle_top_battles"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		JobQueueSize: 10_000,
		WorkerCount:  runtime.NumCPU() * 2,
		DedupeSize:   50_000,

		GraphLookAhead:         3,
		GraphDecaySeconds:      120,
		GraphTopEdges:          150,
		GraphLookAheadFactor:   0.8,
		GraphPositionDecrement: 0.2,

		RepeatResponseWindowSeconds: 20,
		RepeatMinFastResponses:      5,

		BattleMinLength:       3,
		BattleMinParticipants: 2,
		BattleTopBattles:      30,
	}
}
