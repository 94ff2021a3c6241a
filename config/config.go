package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL string
	DBType      string
	Port        string

	JWTSecret string
	JWTTTL    time.Duration

	RequestTimeout time.Duration
	LockTimeout    time.Duration
	MaxOpenConns   int
	MaxIdleConns   int
	CORSOrigins    []string
	RunMigrations  bool

	R2 R2Config

	PODNormalizeSchedule string
	SlipTemplate         string

	// Bootstrap admin created at startup when no user has AdminEmail.
	AdminEmail    string
	AdminPassword string
}

type R2Config struct {
	Bucket          string
	AccountID       string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether every credential needed for uploads is present.
func (r R2Config) Enabled() bool {
	return r.Bucket != "" && r.AccountID != "" && r.AccessKeyID != "" && r.SecretAccessKey != ""
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	cfg := &Config{
		PostgresURL: os.Getenv("POSTGRES_URL"),
		DBType:      envString("DB_TYPE", "postgres"),
		Port:        envString("PORT", "8080"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    envDuration("JWT_TTL", 24*time.Hour),

		RequestTimeout: envDuration("REQUEST_TIMEOUT", 15*time.Second),
		LockTimeout:    envDuration("LOCK_TIMEOUT", 5*time.Second),
		MaxOpenConns:   envInt("DB_MAX_OPEN_CONNS", 5),
		MaxIdleConns:   envInt("DB_MAX_IDLE_CONNS", 2),
		CORSOrigins:    envList("CORS_ORIGINS", []string{"*"}),
		RunMigrations:  envBool("MIGRATIONS", true),

		R2: R2Config{
			Bucket:          os.Getenv("R2_BUCKET"),
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			PublicURL:       strings.TrimRight(os.Getenv("R2_PUBLIC_URL"), "/"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		},

		PODNormalizeSchedule: os.Getenv("POD_NORMALIZE_SCHEDULE"),
		SlipTemplate:         os.Getenv("SLIP_TEMPLATE"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	return cfg
}

// ------------------------ Helpers ------------------------

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
