package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// New reads configuration from environment variables (optionally loading a .env file first)
// and unmarshals them into a struct of type T. Returns the populated configuration struct or an error.
// Variables already present in the environment win over the .env file.
func New[T any]() (T, error) {
	var cfg T
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// enumString and parseEnum map the uint8 enums of this package to their canonical upper
// case names, indexed by value.
type enum interface{ ~uint8 }

func enumString[E enum](v E, names []string) string {
	if int(v) >= len(names) {
		return fmt.Sprintf("UNKNOWN(%d)", v)
	}
	return names[v]
}

func parseEnum[E enum](kind string, text []byte, names []string) (E, error) {
	for i, name := range names {
		if strings.EqualFold(name, string(text)) {
			return E(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s: %s", kind, text)
}
