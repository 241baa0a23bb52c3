package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

var userHomeDir = os.UserHomeDir

// DotEnvPaths lists the .env files LoadDotEnv reads, in priority order.
func DotEnvPaths() []string {
	paths := []string{".env"}
	if home, err := userHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", serviceName, ".env"))
	}
	return paths
}

// LoadDotEnv loads ./.env and ~/.config/store-cli/.env when present.
// Variables already set in the environment are never overwritten, and the
// first file to define a variable wins.
func LoadDotEnv() {
	for _, path := range DotEnvPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// ReadDotEnv parses a .env file without touching the environment.
func ReadDotEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}
