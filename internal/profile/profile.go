package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where learnloop stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your learnloop instance.
	InstanceURL string
	// Secret is the signing secret for access tokens.
	Secret string

	// RedisAddr enables the Redis-backed shared cache when set.
	// Empty means the in-process shared cache is used.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DashboardTTL bounds how long a cached dashboard is trusted.
	DashboardTTL time.Duration
	// FanoutTimeout bounds the module fan-out of a single dashboard build.
	FanoutTimeout time.Duration
	// BatchChunkSize is the ID-list ceiling the document store accepts per query.
	BatchChunkSize int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from LEARNLOOP_* environment variables.
func (p *Profile) FromEnv() {
	p.RedisAddr = getEnvOrDefault("LEARNLOOP_REDIS_ADDR", p.RedisAddr)
	p.RedisPassword = getEnvOrDefault("LEARNLOOP_REDIS_PASSWORD", p.RedisPassword)
	if v := os.Getenv("LEARNLOOP_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.RedisDB = n
		}
	}
	if v := os.Getenv("LEARNLOOP_SECRET"); v != "" {
		p.Secret = v
	}
	if v := os.Getenv("LEARNLOOP_DASHBOARD_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.DashboardTTL = d
		}
	}
	if v := os.Getenv("LEARNLOOP_FANOUT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.FanoutTimeout = d
		}
	}
}

// Validate normalizes the profile and fills defaults.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/learnloop"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "failed to check data directory")
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("learnloop_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	if p.DashboardTTL <= 0 {
		p.DashboardTTL = 300 * time.Second
	}
	if p.FanoutTimeout <= 0 {
		p.FanoutTimeout = 10 * time.Second
	}
	if p.BatchChunkSize <= 0 {
		p.BatchChunkSize = 10
	}

	return nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing "/" in case user supplies
	dataDir = strings.TrimRight(dataDir, "/")

	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	return dataDir, nil
}
