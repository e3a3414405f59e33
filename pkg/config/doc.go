// Package config loads and validates application configuration. Non-secret
// settings may come from a YAML file; the environment overrides the file,
// and secrets are accepted from the environment only.
package config
