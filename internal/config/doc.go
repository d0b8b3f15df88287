// Package config provides environment-based configuration.
//
// Loads process environment variables into the Config struct, validates
// required fields and the token encryption key format.
package config
