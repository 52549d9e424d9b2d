package config

import (
	"log"
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MigrationsPath string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	Prefix          string
}

type AppConfig struct {
	Port     string
	Postgres PostgresConfig
	Redis    RedisConfig

	// Export delivery: local directory served under FilesPublicPrefix by
	// default, S3 when S3_ENABLED is set.
	S3Enabled         bool
	S3                S3Config
	ExportDir         string
	FilesPublicPrefix string
	ExternalURL       string

	ProductCacheTTL int // seconds; 0 disables the product cache
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid bool value %q: %v", s, err)
	}
	return b
}

func Load() AppConfig {
	return AppConfig{
		Port: getenv("APP_PORT", "8080"),
		Postgres: PostgresConfig{
			Host:           getenv("PG_HOST", "127.0.0.1"),
			Port:           mustAtoi(getenv("PG_PORT", "5432")),
			User:           getenv("PG_USER", "postgres"),
			Password:       getenv("PG_PASSWORD", "postgres"),
			DBName:         getenv("PG_DB", "product_engine"),
			SSLMode:        getenv("PG_SSLMODE", "disable"),
			MigrationsPath: getenv("PG_MIGRATIONS_PATH", "file://migrations"),
		},
		Redis: RedisConfig{
			Addr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    getenv("REDIS_PASSWORD", ""),
			DB:          mustAtoi(getenv("REDIS_DB", "0")),
			MaxRetries:  mustAtoi(getenv("REDIS_MAX_RETRIES", "5")),
			DialTimeout: mustAtoi(getenv("REDIS_DIAL_TIMEOUT", "10")),
			Timeout:     mustAtoi(getenv("REDIS_TIMEOUT", "5")),
			Prefix:      getenv("REDIS_PREFIX", "product_engine"),
		},
		S3Enabled: mustBool(getenv("S3_ENABLED", "false")),
		S3: S3Config{
			Endpoint:        getenv("S3_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getenv("S3_ACCESS_KEY", "minio"),
			SecretAccessKey: getenv("S3_SECRET_KEY", "minio123"),
			Bucket:          getenv("S3_BUCKET", "exports"),
			Region:          getenv("S3_REGION", "us-east-1"),
			UseSSL:          mustBool(getenv("S3_USE_SSL", "false")),
			Prefix:          getenv("S3_PREFIX", ""),
		},
		ExportDir:         getenv("EXPORT_DIR", "./exports"),
		FilesPublicPrefix: getenv("FILES_PUBLIC_PREFIX", "/files"),
		ExternalURL:       getenv("EXTERNAL_URL", ""),
		ProductCacheTTL:   mustAtoi(getenv("PRODUCT_CACHE_TTL", "60")),
	}
}
