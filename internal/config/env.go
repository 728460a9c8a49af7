package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the supported dotenv files that exist. Variables already
// present in the process environment are not overwritten.
func loadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, fmt.Errorf("%s: %w", name, err)
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}
