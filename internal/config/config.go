package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Pipeline PipelineConfig
	Recovery RecoveryConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// PipelineConfig holds report processing settings. BatchLimit caps the number
// of sales lines written per insert statement; processing commits line sets
// chunk by chunk.
type PipelineConfig struct {
	BatchLimit         int     `mapstructure:"batch_limit"`
	AutoMatchThreshold float64 `mapstructure:"auto_match_threshold"`
	SuggestThreshold   float64 `mapstructure:"suggest_threshold"`
}

// RecoveryConfig holds stuck-report recovery worker settings.
type RecoveryConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	StaleAfterSecs   int `mapstructure:"stale_after_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SALESFEED_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "salesfeed")
	v.SetDefault("db.password", "salesfeed_secret")
	v.SetDefault("db.name", "salesfeed_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "salesfeed-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Pipeline defaults
	v.SetDefault("pipeline.batch_limit", 500)
	v.SetDefault("pipeline.auto_match_threshold", 0.9)
	v.SetDefault("pipeline.suggest_threshold", 0.8)

	// Recovery defaults
	v.SetDefault("recovery.poll_interval_secs", 60)
	v.SetDefault("recovery.stale_after_secs", 300)
	v.SetDefault("recovery.concurrency", 3)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "SALESFEED_SERVER_PORT",
		"server.read_timeout":            "SALESFEED_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "SALESFEED_SERVER_WRITE_TIMEOUT",
		"server.environment":             "SALESFEED_SERVER_ENVIRONMENT",
		"db.host":                        "SALESFEED_DB_HOST",
		"db.port":                        "SALESFEED_DB_PORT",
		"db.user":                        "SALESFEED_DB_USER",
		"db.password":                    "SALESFEED_DB_PASSWORD",
		"db.name":                        "SALESFEED_DB_NAME",
		"db.sslmode":                     "SALESFEED_DB_SSLMODE",
		"db.max_open":                    "SALESFEED_DB_MAX_OPEN",
		"db.max_idle":                    "SALESFEED_DB_MAX_IDLE",
		"s3.region":                      "SALESFEED_S3_REGION",
		"s3.bucket":                      "SALESFEED_S3_BUCKET",
		"s3.endpoint":                    "SALESFEED_S3_ENDPOINT",
		"s3.access_key":                  "SALESFEED_S3_ACCESS_KEY",
		"s3.secret_key":                  "SALESFEED_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "SALESFEED_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "SALESFEED_S3_PRESIGN_EXPIRY",
		"pipeline.batch_limit":           "SALESFEED_PIPELINE_BATCH_LIMIT",
		"pipeline.auto_match_threshold":  "SALESFEED_PIPELINE_AUTO_MATCH_THRESHOLD",
		"pipeline.suggest_threshold":     "SALESFEED_PIPELINE_SUGGEST_THRESHOLD",
		"recovery.poll_interval_secs":    "SALESFEED_RECOVERY_POLL_INTERVAL_SECS",
		"recovery.stale_after_secs":      "SALESFEED_RECOVERY_STALE_AFTER_SECS",
		"recovery.concurrency":           "SALESFEED_RECOVERY_CONCURRENCY",
		"log.level":                      "SALESFEED_LOG_LEVEL",
		"log.format":                     "SALESFEED_LOG_FORMAT",
		"cors.allowed_origins":           "SALESFEED_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SALESFEED_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SALESFEED_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Pipeline = PipelineConfig{
		BatchLimit:         v.GetInt("pipeline.batch_limit"),
		AutoMatchThreshold: v.GetFloat64("pipeline.auto_match_threshold"),
		SuggestThreshold:   v.GetFloat64("pipeline.suggest_threshold"),
	}
	cfg.Recovery = RecoveryConfig{
		PollIntervalSecs: v.GetInt("recovery.poll_interval_secs"),
		StaleAfterSecs:   v.GetInt("recovery.stale_after_secs"),
		Concurrency:      v.GetInt("recovery.concurrency"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
