package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the externally supplied settings: where the database
// lives, the session secret and the listen address.
type Config struct {
	Addr      string
	Database  string
	SecretKey string
}

// loadConfig reads configuration from the environment, after loading an
// optional .env file for development.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:     ":5000",
		Database: "goblog.db",
	}
	if p := os.Getenv("PORT"); p != "" {
		cfg.Addr = ":" + p
	}
	if d := os.Getenv("DATABASE"); d != "" {
		cfg.Database = d
	}

	cfg.SecretKey = os.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		return Config{}, errors.New("SECRET_KEY required")
	}
	return cfg, nil
}
