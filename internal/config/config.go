package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Env is "dev" (default) or "prod".
	Env string

	// DBDriver is "postgres" (default) or "sqlite3". SQLitePath is used only for sqlite3.
	DBDriver   string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPass     string
	DBSSLMode  string
	SQLitePath string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int
	// DBQueryTimeout bounds every repository call (default 5s).
	DBQueryTimeout time.Duration

	// MigrateOnStart applies pending schema migrations before serving.
	MigrateOnStart bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json". LogLevel is a zerolog level name.
	LogFormat string
	LogLevel  string

	// CORSAllowedOrigins is the comma-separated CORS_ALLOWED_ORIGINS list for /api/journal. "*" allows any origin.
	CORSAllowedOrigins []string
	// AuthCORSAllowedOrigins is the same for /api/auth (AUTH_CORS_ALLOWED_ORIGINS, default "*").
	AuthCORSAllowedOrigins []string

	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// fileConfig is the YAML shape read from CONFIG_FILE. Environment variables win over it.
type fileConfig struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	Database struct {
		Driver       string `yaml:"driver"`
		Host         string `yaml:"host"`
		Port         string `yaml:"port"`
		Name         string `yaml:"name"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		SSLMode      string `yaml:"sslmode"`
		SQLitePath   string `yaml:"sqlite_path"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		QueryTimeout string `yaml:"query_timeout"`
		Migrate      *bool  `yaml:"migrate_on_start"`
	} `yaml:"database"`
	Log struct {
		Format string `yaml:"format"`
		Level  string `yaml:"level"`
	} `yaml:"log"`
	CORSAllowedOrigins     []string `yaml:"cors_allowed_origins"`
	AuthCORSAllowedOrigins []string `yaml:"auth_cors_allowed_origins"`
}

// Load reads an optional .env file, then the optional YAML file named by
// CONFIG_FILE, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if fc, err = readFile(path); err != nil {
			return Config{}, err
		}
	}
	return fromSources(fc)
}

// LoadFile is Load with an explicit YAML path instead of CONFIG_FILE.
func LoadFile(path string) (Config, error) {
	fc, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	return fromSources(fc)
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

func fromSources(fc fileConfig) (Config, error) {
	db := fc.Database

	queryTimeout, err := getEnvDuration("DB_QUERY_TIMEOUT", or(db.QueryTimeout, "5s"))
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	migrate := true
	if db.Migrate != nil {
		migrate = *db.Migrate
	}

	cors := corsOrigins("CORS_ALLOWED_ORIGINS", fc.CORSAllowedOrigins, "http://localhost:3000")
	authCORS := corsOrigins("AUTH_CORS_ALLOWED_ORIGINS", fc.AuthCORSAllowedOrigins, "*")

	cfg := Config{
		Port: getEnv("PORT", or(fc.Port, "8081")),
		Env:  getEnv("ENV", or(fc.Env, "dev")),

		DBDriver:   getEnv("DB_DRIVER", or(db.Driver, "postgres")),
		DBHost:     getEnv("DB_HOST", or(db.Host, "localhost")),
		DBPort:     getEnv("DB_PORT", or(db.Port, "5432")),
		DBName:     getEnv("DB_NAME", or(db.Name, "journal")),
		DBUser:     getEnv("DB_USER", or(db.User, "journal")),
		DBPass:     getEnv("DB_PASS", or(db.Password, "journal")),
		DBSSLMode:  getEnv("DB_SSLMODE", or(db.SSLMode, "disable")),
		SQLitePath: getEnv("SQLITE_PATH", or(db.SQLitePath, "journal.db")),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", orInt(db.MaxOpenConns, 25)),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", orInt(db.MaxIdleConns, 5)),
		DBQueryTimeout: queryTimeout,
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", migrate),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", or(fc.Log.Format, "text")),
		LogLevel:  getEnv("LOG_LEVEL", or(fc.Log.Level, "info")),

		CORSAllowedOrigins:     cors,
		AuthCORSAllowedOrigins: authCORS,

		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite3" {
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite3, got %q", cfg.DBDriver)
	}
	return cfg, nil
}

// DatabaseURL returns a URL-form DSN suitable for golang-migrate.
// Credentials and database name are escaped.
func (c Config) DatabaseURL() string {
	if c.DBDriver == "sqlite3" {
		return "sqlite3://" + c.SQLitePath
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// TLSEnabled reports whether both certificate and key are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// corsOrigins prefers the environment, then the YAML list, then fallback.
func corsOrigins(key string, fromFile []string, fallback string) []string {
	if v := os.Getenv(key); v != "" || fromFile == nil {
		return parseCORSOrigins(getEnv(key, fallback))
	}
	return fromFile
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	v := getEnv(key, fallback)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
