package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Admin access
	JWTSecret         string
	JWTAdminExpiry    time.Duration
	AdminToken        string
	AdminPasswordHash string

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailMockMode bool

	// Text-to-speech
	TTSAPIKey  string
	TTSAPIURL  string
	TTSVoice   string
	TTSTimeout time.Duration

	// Audio generation
	AudioDir     string
	AudioWorkers int

	// Server
	Port        string
	CORSOrigins string
	BaseURL     string

	// Sync links
	SyncEmailWindow time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "hastingtx_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTAdminExpiry:    parseDuration(getEnv("JWT_ADMIN_EXPIRY", "12h"), 12*time.Hour),
		AdminToken:        getEnv("ADMIN_TOKEN", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "25"), 25),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "devotionals@hastingtx.org"),
		MailMockMode: getEnv("MAIL_MOCK", "") == "true",

		TTSAPIKey:  getEnv("TTS_API_KEY", ""),
		TTSAPIURL:  getEnv("TTS_API_URL", "https://texttospeech.googleapis.com/v1/text:synthesize"),
		TTSVoice:   getEnv("TTS_VOICE", "en-US-Neural2-D"),
		TTSTimeout: parseDuration(getEnv("TTS_TIMEOUT", "60s"), 60*time.Second),

		AudioDir:     getEnv("AUDIO_DIR", "static/uploads/devotionals/audio"),
		AudioWorkers: parseInt(getEnv("AUDIO_WORKERS", "7"), 7),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		BaseURL:     getEnv("BASE_URL", "https://hastingtx.org"),

		SyncEmailWindow: parseDuration(getEnv("SYNC_EMAIL_WINDOW", "15m"), 15*time.Minute),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
