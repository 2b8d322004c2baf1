package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. The backend URL and anon key
// have no useful defaults and must be provided via the environment or .env.
type Config struct {
	BackendURL     string // base URL of the hosted backend (auth, tables, storage)
	BackendAnonKey string // publishable API key sent as the apikey header
	SongsBucket    string // object-storage bucket for uploaded audio
	ImagesBucket   string // object-storage bucket for cover art
	StateDir       string // directory for the persisted credential file
	FFplayPath     string // ffplay binary; ffprobe is derived from it
	LogLevel       string
	LogPath        string
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	stateDir := getEnv("STATE_DIR", "")
	if stateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			stateDir = filepath.Join(home, ".tamilfm")
		} else {
			stateDir = ".tamilfm"
		}
	}

	return &Config{
		BackendURL:     getEnv("BACKEND_URL", ""),
		BackendAnonKey: os.Getenv("BACKEND_ANON_KEY"), // secret-ish, no hardcoded default
		SongsBucket:    getEnv("SONGS_BUCKET", "songs"),
		ImagesBucket:   getEnv("IMAGES_BUCKET", "song-images"),
		StateDir:       stateDir,
		FFplayPath:     getEnv("FFPLAY_PATH", "ffplay"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPath:        getEnv("LOG_PATH", ""),
		LogMaxSizeMB:   getEnvInt("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups:  getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:  getEnvInt("LOG_MAX_AGE_DAYS", 14),
	}
}

// CredentialFile is the path of the persisted credential file.
func (c *Config) CredentialFile() string {
	return filepath.Join(c.StateDir, "credentials.json")
}
