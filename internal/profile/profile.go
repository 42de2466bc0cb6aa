package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RECOGNIZERS"

// Profile is the configuration to start the server and the CLI.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where recognition history is stored
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// History enables persisting recognitions
	History bool
	// HistoryRetention prunes older history; 0 keeps everything
	HistoryRetention time.Duration

	// Cultures to load; empty loads all
	Cultures []string
	// DefaultCulture serves requests without a culture
	DefaultCulture string
	// Timezone anchors requests without a reference instant
	Timezone string

	CacheSize    int
	CacheTTL     time.Duration
	Concurrency  int
	MaxTextBytes int

	// RateLimit is requests per second per client; 0 disables it
	RateLimit float64
	RateBurst int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", "demo")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8081)
	v.SetDefault("data", "")
	v.SetDefault("driver", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("history", true)
	v.SetDefault("history-retention", 30*24*time.Hour)
	v.SetDefault("cultures", []string{})
	v.SetDefault("default-culture", "en-us")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("cache-size", 1000)
	v.SetDefault("cache-ttl", 5*time.Minute)
	v.SetDefault("concurrency", 4)
	v.SetDefault("max-text-bytes", 1<<20)
	v.SetDefault("rate-limit", 10.0)
	v.SetDefault("rate-burst", 20)
}

// Load reads a profile from v. Keys may also come from RECOGNIZERS_*
// environment variables, with dashes written as underscores.
func Load(v *viper.Viper, version string) *Profile {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Profile{
		Mode:             v.GetString("mode"),
		Addr:             v.GetString("addr"),
		Port:             v.GetInt("port"),
		Data:             v.GetString("data"),
		Driver:           v.GetString("driver"),
		DSN:              v.GetString("dsn"),
		Version:          version,
		History:          v.GetBool("history"),
		HistoryRetention: v.GetDuration("history-retention"),
		Cultures:         splitList(v.GetStringSlice("cultures")),
		DefaultCulture:   v.GetString("default-culture"),
		Timezone:         v.GetString("timezone"),
		CacheSize:        v.GetInt("cache-size"),
		CacheTTL:         v.GetDuration("cache-ttl"),
		Concurrency:      v.GetInt("concurrency"),
		MaxTextBytes:     v.GetInt("max-text-bytes"),
		RateLimit:        v.GetFloat64("rate-limit"),
		RateBurst:        v.GetInt("rate-burst"),
	}
}

// splitList accepts both repeated values and a single comma-separated value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
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

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Driver == "postgres" && p.History && p.DSN == "" {
		return errors.New("postgres driver needs a dsn")
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return errors.Wrapf(err, "invalid timezone %q", p.Timezone)
	}
	if p.Concurrency <= 0 {
		return errors.Errorf("concurrency must be positive, got %d", p.Concurrency)
	}
	if p.HistoryRetention < 0 {
		return errors.Errorf("history retention must not be negative, got %s", p.HistoryRetention)
	}
	if p.RateLimit < 0 {
		return errors.Errorf("rate limit must not be negative, got %v", p.RateLimit)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "recognizers")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/recognizers"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("recognizers_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	return nil
}
