package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, read from the process
// environment at startup
type Config struct {
	Addr          string
	SessionSecret string

	// Plagiarism analysis API (chat-completion style)
	AnalysisBaseURL string
	DeepSeekAPIKey  string
	AnalysisModel   string

	// AI-content detection API
	DetectorBaseURL string
	GPTZeroAPIKey   string

	// Web search API
	SearchBaseURL string
	SerpAPIKey    string
	SearchEngine  string

	// Fetch resolved source pages to confirm excerpts appear on them
	VerifySources bool

	HTTPTimeout    time.Duration
	MaxUploadBytes int64
	DocumentTTL    time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load(logger *log.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Printf("No .env file loaded: %v", err)
	}

	return &Config{
		Addr:            getenv("VERIPLAGIO_ADDR", ":8080"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AnalysisBaseURL: getenv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		AnalysisModel:   getenv("DEEPSEEK_MODEL", "deepseek-chat"),
		DetectorBaseURL: getenv("GPTZERO_BASE_URL", "https://api.gptzero.me"),
		GPTZeroAPIKey:   os.Getenv("GPTZERO_API_KEY"),
		SearchBaseURL:   getenv("SERPAPI_BASE_URL", "https://serpapi.com"),
		SerpAPIKey:      os.Getenv("SERPAPI_API_KEY"),
		SearchEngine:    getenv("SERPAPI_ENGINE", "google"),
		VerifySources:   getenvBool("VERIPLAGIO_VERIFY_SOURCES", false),
		HTTPTimeout:     getenvDuration("VERIPLAGIO_HTTP_TIMEOUT", 30*time.Second),
		MaxUploadBytes:  getenvInt64("VERIPLAGIO_MAX_UPLOAD_BYTES", 16*1024*1024),
		DocumentTTL:     getenvDuration("VERIPLAGIO_DOCUMENT_TTL", 30*time.Minute),
	}
}

func getenv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt64(key string, fallback int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
