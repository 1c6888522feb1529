// Package config збирає всю конфігурацію процесу з environment-змінних.
// Завантажується один раз при старті; далі передається явно.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config містить всі process-wide налаштування сервісу.
type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	// Дозволені CORS origins (розділені комами в env)
	AllowedOrigins []string

	UploadDir string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Опціональний канал сповіщень для операторів
	TelegramBotToken   string
	TelegramAdminChat  int64

	// Rate limit для /auth/** (запитів на вікно)
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load читає конфігурацію з env, підставляючи дефолти для всього,
// крім секретів.
func Load() *Config {
	ttlHours := getInt("JWT_TTL_HOURS", 24)

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "civicdb"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    time.Duration(ttlHours) * time.Hour,

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@civicgo.local"),

		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChat: getInt64("TELEGRAM_ADMIN_CHAT_ID", 0),

		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: time.Duration(getInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

// MustLoad як Load, але зупиняє процес, якщо відсутній JWT secret.
// Ротація секрету інвалідовує всі раніше видані токени.
func MustLoad() *Config {
	cfg := Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET не встановлено!")
	}
	return cfg
}

// DSN будує рядок підключення до PostgreSQL.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("WARN: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
