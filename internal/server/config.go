package server

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

// Config is read from the environment.
type Config struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	LibraryPath  string
	CatalogPath  string // extra garments merged over the built-in catalog
}

// LoadConfig reads PORT, READ_TIMEOUT, WRITE_TIMEOUT, KNITPLAN_LIBRARY and
// KNITPLAN_GARMENTS. An empty library path disables the library routes.
func LoadConfig() Config {
	return Config{
		Port:         getEnv("PORT", "3000"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		LibraryPath:  getEnv("KNITPLAN_LIBRARY", ""),
		CatalogPath:  getEnv("KNITPLAN_GARMENTS", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
