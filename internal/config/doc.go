// Package config provides configuration management for quotegrab.
// It defines the Config struct built from CLI flags, its validation, and
// the YAML configuration file holding selector and next-link strategy
// definitions with per-site overrides.
package config
