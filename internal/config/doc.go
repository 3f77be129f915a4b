// Package config loads and validates application configuration from
// environment variables and an optional config file. Environment
// variables use the TASKPING_ prefix and take precedence. Components
// receive typed sub-structs rather than reading the environment
// themselves.
package config
