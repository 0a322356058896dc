package configs

import (
	"flag"
	"os"

	"github.com/sprintdeck/pokersync/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from the --config flag, the
// POKERSYNC_CONFIG env var, or a handful of conventional locations. An empty
// result is fine: Load falls back to defaults and env overrides.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("POKERSYNC_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/pokersync/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
