package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server Server
	Stats  StatsConfig
	Avatar AvatarConfig
	Card   CardConfig
	GitHub GitHubConfig
	Theme  ThemeConfig
	Usage  UsageConfig
}

type Server struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string
	// PublicURL is the externally visible origin used in generated README snippets.
	// Empty means the origin is taken from the request.
	PublicURL    string
}

// StatsConfig describes the upstream statistics collaborator.
// An empty APIURL means the server's own /api/streak endpoint.
type StatsConfig struct {
	APIURL      string
	UserAgent   string
	HTTPTimeout int
}

type AvatarConfig struct {
	MaxBytes int
	Size     int
}

type CardConfig struct {
	CacheMaxAge int
}

type GitHubConfig struct {
	Token   string
	BaseURL string
}

type ThemeConfig struct {
	PresetsFile string
}

// UsageConfig enables render usage recording when DBPath is set.
type UsageConfig struct {
	DBPath     string
	BufferSize int
	AdminToken string
}

const DefaultUserAgent = "GitHub-Streak-Card/1.0"

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = FromEnv()
	return nil
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Server: Server{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			PublicURL:    strings.TrimRight(getEnv("PUBLIC_URL", ""), "/"),
		},
		Stats: StatsConfig{
			APIURL:      getEnv("STATS_API_URL", ""),
			UserAgent:   getEnv("STATS_USER_AGENT", DefaultUserAgent),
			HTTPTimeout: getEnvAsInt("HTTP_TIMEOUT", 10),
		},
		Avatar: AvatarConfig{
			MaxBytes: getEnvAsInt("AVATAR_MAX_BYTES", 5<<20),
			Size:     getEnvAsInt("AVATAR_SIZE", 120),
		},
		Card: CardConfig{
			CacheMaxAge: getEnvAsInt("CARD_CACHE_MAX_AGE", 300),
		},
		GitHub: GitHubConfig{
			Token:   getEnv("GITHUB_TOKEN", ""),
			BaseURL: getEnv("GITHUB_API_URL", ""),
		},
		Theme: ThemeConfig{
			PresetsFile: getEnv("THEME_PRESETS_FILE", ""),
		},
		Usage: UsageConfig{
			DBPath:     getEnv("USAGE_DB_PATH", ""),
			BufferSize: getEnvAsInt("USAGE_BUFFER", 256),
			AdminToken: getEnv("USAGE_ADMIN_TOKEN", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
		log.Printf("Invalid value for %s, using default: %d", key, defaultValue)
	}
	return defaultValue
}
