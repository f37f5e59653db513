package config

import (
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ProjectEnvFile is the per-directory env file name.
const ProjectEnvFile = ".nephyra.env"

// EnvFiles returns the env files read by LoadEnvFiles, lowest precedence first.
func EnvFiles() []string {
	return []string{GlobalEnvPath(), ProjectEnvFile}
}

// ReadEnvFiles merges the given dotenv files; later files override earlier
// ones. Missing or malformed files are skipped.
func ReadEnvFiles(paths ...string) map[string]string {
	merged := make(map[string]string)
	for _, p := range paths {
		envs, err := godotenv.Read(p)
		if err != nil {
			continue
		}
		maps.Copy(merged, envs)
	}
	return merged
}

// LoadEnvFiles sets variables from EnvFiles that are not already present in
// the process environment.
func LoadEnvFiles() {
	for k, v := range ReadEnvFiles(EnvFiles()...) {
		if _, set := os.LookupEnv(k); !set {
			_ = os.Setenv(k, v)
		}
	}
}

// ParseEnvFile parses dotenv-formatted data.
func ParseEnvFile(data []byte) (map[string]string, error) {
	return godotenv.Unmarshal(string(data))
}

// GlobalEnvPath returns <user config dir>/nephyra/env.
func GlobalEnvPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nephyra", "env")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "nephyra", "env")
}
