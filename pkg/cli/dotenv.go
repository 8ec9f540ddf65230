package cli

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/superpix/pkg/segment"
)

// LoadEnvDefaults loads a .env file from the working directory, if present,
// so users can preconfigure flag defaults. A missing file is not an error.
func LoadEnvDefaults() {
	_ = godotenv.Load()
}

// ConfigFromEnv starts from the library defaults and overrides them with any
// SUPERPIX_* environment variables. Unparseable values are ignored; flag
// validation catches out-of-range ones later.
func ConfigFromEnv() segment.Config {
	cfg := segment.DefaultConfig()
	if v := os.Getenv("SUPERPIX_ALGORITHM"); v != "" {
		cfg.Algorithm = segment.Algorithm(v)
	}
	if v := envInt("SUPERPIX_COUNT"); v != 0 {
		cfg.Count = v
	}
	if v := envInt("SUPERPIX_COMPACTNESS"); v != 0 {
		cfg.Compactness = v
	}
	if v := envInt("SUPERPIX_ITERATIONS"); v != 0 {
		cfg.Iterations = v
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}
