// Package config provides balance-configuration management for the Motor
// Tycoon Game.
//
// The Manager loads JSON presets from a configurable directory, validates
// them through the engine's config validation, and caches results. When no
// preset files exist it falls back to the built-in standard rules, so the
// server always starts.
package config
