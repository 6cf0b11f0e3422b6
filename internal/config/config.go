// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var loadDotenv sync.Once

// Load populates cfg from environment variables using `env` struct
// tags. A .env file in the working directory is loaded once per
// process before the first parse; a missing file is not an error.
func Load(cfg any) error {
	loadDotenv.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment config: %w", err)
	}
	return nil
}

// MustLoad is Load that panics on failure, for use during startup.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
