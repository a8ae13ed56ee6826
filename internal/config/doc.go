// Package config implements layered configuration: a PartialConfig decoded
// from CLI flags or a YAML config file (every field optional, nil-
// preserving), merged field-by-field with CLI values taking precedence over
// the file, then resolved into a fully-populated Config with defaults
// applied and cross-field preconditions checked.
package config
