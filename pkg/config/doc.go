// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing. Every component of the
// service declares its own Config struct (HTTP server, Postgres, relays,
// stream sessions, digest queue, JWT) and cmd/server loads each of them
// through Load, which parses a given type once per process and serves
// subsequent calls from an in-memory cache.
//
//	var cfg pusherrelay.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// ResetCache is provided for tests that change the environment between runs.
package config
