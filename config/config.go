package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process configuration. It is loaded once at startup and
// treated as read-only afterwards; every component receives it (or the
// fields it needs) at construction time.
type Config struct {
	ServerPort  string
	GinMode     string
	Environment string
	DebugSQL    bool

	// BaseURL is the public URL of the frontend, used to build reviewer
	// invitation links.
	BaseURL       string
	AllowedOrigin string

	DBHost     string
	DBPort     string
	DBDatabase string
	DBUsername string
	DBPassword string

	JWTSecret string
	// JWTExpireHours bounds session tokens. There is no revocation list, so
	// a role change only takes effect once outstanding tokens expire.
	JWTExpireHours int

	// AdminEmail and ReviewerEmails form the registration whitelist.
	// Registration is closed: any other address is rejected.
	AdminEmail     string
	ReviewerEmails []string

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool

	StorageCloudName string
	StorageAPIKey    string
	StorageAPISecret string
	StorageUploadURL string
	StorageTimeout   time.Duration
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should be honored.
func Load() *Config {
	cfg := &Config{
		ServerPort:  getenv("SERVER_PORT", "8080"),
		GinMode:     os.Getenv("GIN_MODE"),
		Environment: strings.ToLower(os.Getenv("ENVIRONMENT")),
		DebugSQL:    strings.ToLower(os.Getenv("DEBUG_SQL")) == "true",

		BaseURL:       getenv("BASE_URL", "http://localhost:3000"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBDatabase: os.Getenv("DB_DATABASE"),
		DBUsername: os.Getenv("DB_USERNAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpireHours: getenvInt("JWT_EXPIRE_HOURS", 24),

		AdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),

		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getenvInt("SMTP_PORT", 587),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		SMTPFrom:          os.Getenv("SMTP_FROM"),
		SMTPSkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",

		StorageCloudName: os.Getenv("STORAGE_CLOUD_NAME"),
		StorageAPIKey:    os.Getenv("STORAGE_API_KEY"),
		StorageAPISecret: os.Getenv("STORAGE_API_SECRET"),
		StorageUploadURL: getenv("STORAGE_UPLOAD_URL", "https://api.cloudinary.com"),
		StorageTimeout:   time.Duration(getenvInt("STORAGE_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	for _, addr := range strings.Split(os.Getenv("REVIEWER_EMAILS"), ",") {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr != "" {
			cfg.ReviewerEmails = append(cfg.ReviewerEmails, addr)
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v == 0 {
		return fallback
	}
	return v
}
