package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	MongoURI  string
	RedisURI  string
	JWTSecret string
	Port      string

	FrontendURL    string   // Base URL for links in outbound email (reset password)
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
}

func Load() *Config {
	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	// CORS: allow multiple origins so the production frontend works
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{frontendURL}
	}

	emailPort, err := strconv.Atoi(getEnv("EMAIL_PORT", "587"))
	if err != nil {
		emailPort = 587
	}

	return &Config{
		MongoURI:            getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/sportmania")),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:                getEnv("PORT", "5000"),
		FrontendURL:         frontendURL,
		AllowedOrigins:      allowedOrigins,
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		EmailHost:           getEnv("EMAIL_HOST", ""),
		EmailPort:           emailPort,
		EmailUser:           getEnv("EMAIL_USER", ""),
		EmailPass:           getEnv("EMAIL_PASS", ""),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
